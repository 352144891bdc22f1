package main

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DecodeTestSuite struct {
	CommandTestSuite
}

func TestDecodeSuite(t *testing.T) {
	suite.Run(t, new(DecodeTestSuite))
}

// writeRawSampleFile decodes the hex-encoded packet fixture into a raw
// binary temp file, since decode reads its input as wire bytes directly.
func (s *DecodeTestSuite) writeRawSampleFile() string {
	hexBytes, err := os.ReadFile("../../testdata/packets/cat048_sample.hex")
	s.Require().NoError(err)
	data, err := hex.DecodeString(string(trimNewline(hexBytes)))
	s.Require().NoError(err)

	path := filepath.Join(s.T().TempDir(), "sample.bin")
	s.Require().NoError(os.WriteFile(path, data, 0o644))
	return path
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}

func (s *DecodeTestSuite) TestDecodeTextOutput() {
	path := s.writeRawSampleFile()

	var execErr error
	out := s.CaptureStdout(func() {
		_, execErr = s.ExecuteCommand(rootCmd, "decode",
			"--category-dir", "../../testdata/categories",
			"--filter-category", "48", path)
	})
	s.Require().NoError(execErr)
	s.Contains(out, "category=48")
}

func (s *DecodeTestSuite) TestDecodeOutLineFormat() {
	path := s.writeRawSampleFile()

	var execErr error
	out := s.CaptureStdout(func() {
		_, execErr = s.ExecuteCommand(rootCmd, "decode",
			"--category-dir", "../../testdata/categories",
			"--filter-category", "48", "--format", "outline", path)
	})
	s.Require().NoError(execErr)
	s.Contains(out, "CAT048;")
	s.NotContains(out, "[record")
}

func (s *DecodeTestSuite) TestDecodeFilterCategoryExcludesAll() {
	path := s.writeRawSampleFile()

	var execErr error
	out := s.CaptureStdout(func() {
		_, execErr = s.ExecuteCommand(rootCmd, "decode",
			"--category-dir", "../../testdata/categories",
			"--filter-category", "34", path)
	})
	s.Require().NoError(execErr)
	s.Empty(out)
}

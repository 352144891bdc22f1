package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DescribeTestSuite struct {
	CommandTestSuite
}

func TestDescribeSuite(t *testing.T) {
	suite.Run(t, new(DescribeTestSuite))
}

func (s *DescribeTestSuite) TestDescribeCategoryOnly() {
	var execErr error
	out := s.CaptureStdout(func() {
		_, execErr = s.ExecuteCommand(rootCmd, "describe", "48", "--category-dir", "../../testdata/categories")
	})
	s.Require().NoError(execErr)
	s.Contains(out, "Category 48")
	s.Contains(out, "Monoradar Target Reports")
	s.Contains(out, "010")
}

func (s *DescribeTestSuite) TestDescribeField() {
	var execErr error
	out := s.CaptureStdout(func() {
		_, execErr = s.ExecuteCommand(rootCmd, "describe", "48", "010", "SAC", "--category-dir", "../../testdata/categories")
	})
	s.Require().NoError(execErr)
	s.Contains(out, "SAC")
	s.Contains(out, "System Area Code")
}

func (s *DescribeTestSuite) TestDescribeUnknownCategoryReportsError() {
	_, err := s.ExecuteCommand(rootCmd, "describe", "199", "--category-dir", "../../testdata/categories")
	s.Require().Error(err)
	s.True(strings.Contains(err.Error(), "199"))
}

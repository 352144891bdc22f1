// Package asterix is the public facade over the ASTERIX decoder: load
// category definitions once, then parse data blocks against them (§6.3).
package asterix

import (
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/srg/asterix/internal/decoder"
	"github.com/srg/asterix/internal/describe"
	"github.com/srg/asterix/internal/registry"
	"github.com/srg/asterix/internal/xmlloader"
	"github.com/srg/asterix/pkg/config"
)

// Options mirrors internal/decoder.Options so callers never need to
// import the internal package directly.
type Options = decoder.Options

// Result mirrors internal/decoder.Result.
type Result = decoder.Result

// OffsetResult mirrors internal/decoder.OffsetResult.
type OffsetResult = decoder.OffsetResult

// Handle is a loaded, ready-to-use decoder instance. The zero value is
// not usable; construct one with New.
type Handle struct {
	reg    *registry.Registry
	logger *logrus.Logger
}

// New returns an empty Handle with no categories loaded. cfg may be nil
// (config.DefaultConfig() is used).
func New(cfg *config.Config) *Handle {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Handle{
		reg:    registry.New(),
		logger: cfg.NewLogger(),
	}
}

// LoadCategory registers a single category XML file (§6.3 "load_category").
func (h *Handle) LoadCategory(path string) error {
	return xmlloader.LoadFile(h.reg, path, h.logger)
}

// LoadCategoryDir registers every *.xml file in dir (§6.3 "init").
func (h *Handle) LoadCategoryDir(dir string) error {
	return xmlloader.LoadDir(h.reg, dir, h.logger)
}

// IsCategoryDefined reports whether id has a loaded definition (§6.3).
func (h *Handle) IsCategoryDefined(id uint8) bool {
	return h.reg.IsCategoryDefined(id)
}

// Parse decodes every block in data (§6.3 "parse").
func (h *Handle) Parse(data []byte, opts Options) *Result {
	return decoder.Parse(h.reg, data, opts, h.logger)
}

// ParseWithOffset decodes starting at offset, for incremental consumers
// managing their own buffer (§6.3, §6.4).
func (h *Handle) ParseWithOffset(data []byte, offset, maxBlocks int, opts Options) *OffsetResult {
	return decoder.ParseWithOffset(h.reg, data, offset, maxBlocks, opts, h.logger)
}

// NewStream returns a StreamReader bound to this Handle's registry for
// decoding bytes arriving incrementally (§4.4 "Incremental API").
func (h *Handle) NewStream(opts decoder.StreamOptions) *decoder.StreamReader {
	if opts.Logger == nil {
		opts.Logger = h.logger
	}
	return decoder.NewStreamReader(h.reg, opts)
}

// Describe answers the describe API (§4.6) for a category, optionally
// narrowed to one item and field.
func (h *Handle) Describe(catID uint8, itemID, fieldName string) (*describe.Answer, error) {
	return describe.Describe(h.reg, catID, itemID, fieldName)
}

// Registry exposes the loaded registry for callers that need lower-level
// access, such as enumerating every loaded category.
func (h *Handle) Registry() *registry.Registry {
	return h.reg
}

var (
	defaultOnce   sync.Once
	defaultHandle *Handle
)

// Default returns a process-wide Handle constructed with
// config.DefaultConfig, created lazily on first use (§6.3 "a package
// singleton sized for simple callers that never need a second
// registry").
func Default() *Handle {
	defaultOnce.Do(func() {
		defaultHandle = New(nil)
	})
	return defaultHandle
}

// Init loads every category under dir into the default Handle.
func Init(dir string) error {
	return Default().LoadCategoryDir(dir)
}

// Parse decodes data against the default Handle.
func Parse(data []byte, opts Options) *Result {
	return Default().Parse(data, opts)
}

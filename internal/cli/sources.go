package cli

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/resinhook/internal/config"
	"github.com/rshade/resinhook/internal/engine/cache"
	"github.com/rshade/resinhook/internal/engine/export"
	"github.com/rshade/resinhook/internal/mockdata"
	"github.com/rshade/resinhook/internal/source"
)

// sourceFlags selects where rows come from. Exactly one of input, url and
// mock must be set.
type sourceFlags struct {
	input   string
	url     string
	sheet   string
	mock    int
	kind    string
	locale  string
	txnType string
	seed    uint64
}

// sourceInfo holds defaults the source suggests for the export.
type sourceInfo struct {
	label    string
	filename string
	sheet    string
	headers  map[string]string
}

func (f *sourceFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.input, "input", "", "read rows from a .json or .xlsx file")
	cmd.Flags().StringVar(&f.url, "url", "", "fetch rows as JSON from a URL")
	cmd.Flags().StringVar(&f.sheet, "input-sheet", "", "sheet to read from an .xlsx input (default: first sheet)")
	cmd.Flags().IntVar(&f.mock, "mock", 0, "generate N rows of mock bank data")
	cmd.Flags().StringVar(&f.kind, "mock-type", string(mockdata.KindTransactions),
		"mock data type: transactions or accounts")
	cmd.Flags().StringVar(&f.locale, "mock-keys", string(mockdata.LocaleZH), "mock field names: zh or en")
	cmd.Flags().StringVar(&f.txnType, "mock-txn-type", "", "keep only mock transactions of this type")
	cmd.Flags().Uint64Var(&f.seed, "mock-seed", 0, "seed for reproducible mock data (default: random)")
}

// resolve builds the export source selected by the flags.
func (f sourceFlags) resolve(cfg *config.Config) (export.Source, sourceInfo, error) {
	set := 0
	for _, on := range []bool{f.input != "", f.url != "", f.mock > 0} {
		if on {
			set++
		}
	}
	switch set {
	case 0:
		return export.Source{}, sourceInfo{}, ErrNoSource
	case 1:
	default:
		return export.Source{}, sourceInfo{}, ErrMultipleSources
	}

	switch {
	case f.input != "":
		producer, err := source.File(f.input, f.sheet)
		if err != nil {
			return export.Source{}, sourceInfo{}, err
		}
		base := filepath.Base(f.input)
		return export.FromProducer(producer), sourceInfo{
			label:    "file:" + f.input,
			filename: strings.TrimSuffix(base, filepath.Ext(base)),
		}, nil

	case f.url != "":
		remote := source.Remote{
			Client: &http.Client{Timeout: source.DefaultTimeout},
			Cache:  openCache(cfg),
		}
		return export.FromProducer(remote.URL(f.url)), sourceInfo{label: "url:" + f.url}, nil

	default:
		kind := mockdata.ParseKind(f.kind)
		locale := mockdata.ParseLocale(f.locale)
		gen := mockdata.NewRandom()
		if f.seed != 0 {
			gen = mockdata.New(f.seed, time.Now)
		}

		info := sourceInfo{
			label:    "mock:" + string(kind),
			filename: mockdata.DefaultDownloadName,
			sheet:    mockdata.SheetName(kind),
		}
		if locale == mockdata.LocaleEN {
			info.headers = mockdata.Headers(kind)
		}
		q := mockdata.Query{Kind: kind, Count: f.mock, Locale: locale, TxnType: f.txnType}
		return export.FromProducer(source.Mock(gen, q)), info, nil
	}
}

// openCache returns the response cache, or a disabled one when caching is
// off or the directory cannot be used.
func openCache(cfg *config.Config) *cache.FileStore {
	if !cfg.Cache.Enabled {
		return cache.Disabled()
	}
	dir, err := cfg.CacheDir()
	if err != nil {
		logger.Warn().Err(err).Msg("cache directory unavailable, caching disabled")
		return cache.Disabled()
	}
	store, err := cache.NewFileStore(dir, cfg.Cache.TTL)
	if err != nil {
		logger.Warn().Err(err).Str("dir", dir).Msg("opening cache, caching disabled")
		return cache.Disabled()
	}
	return store
}

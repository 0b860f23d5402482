package main

import (
	"errors"
	"os"

	mdpress "github.com/alnah/go-mdpress"
	"github.com/alnah/go-mdpress/internal/config"
)

// Process exit codes. Custom codes stay below 126, which shells reserve.
const (
	ExitSuccess = 0
	ExitGeneral = 1
	ExitUsage   = 2 // bad flags, config or options
	ExitIO      = 3 // missing, unreadable or unwritable files
	ExitBrowser = 4 // Chrome could not start, load or print
)

// exitClasses is checked in order, so an error joining a browser failure
// with a file failure exits as a browser failure.
var exitClasses = []struct {
	code int
	errs []error
}{
	{ExitBrowser, []error{
		mdpress.ErrBrowserConnect,
		mdpress.ErrPageCreate,
		mdpress.ErrPageLoad,
		mdpress.ErrPDFGeneration,
	}},
	{ExitIO, []error{
		os.ErrNotExist,
		os.ErrPermission,
		ErrReadSource,
		ErrReadTemplate,
		ErrWritePDF,
		ErrWriteHTML,
		ErrNoInput,
		mdpress.ErrInputDecoding,
	}},
	{ExitUsage, []error{
		config.ErrConfigNotFound,
		config.ErrConfigParse,
		config.ErrFieldTooLong,
		config.ErrFieldRange,
		config.ErrUnknownLocale,
		ErrInvalidOptions,
		ErrTooManyArgs,
		ErrInvalidExtension,
		ErrInvalidWorkerCount,
		ErrPDFOutputForDir,
		ErrOutputCollision,
		mdpress.ErrEmptyDocument,
		mdpress.ErrInvalidPageSize,
		mdpress.ErrInvalidOrientation,
		mdpress.ErrInvalidMargin,
		mdpress.ErrInvalidFooterPosition,
		mdpress.ErrInvalidFooterDate,
		mdpress.ErrInvalidRenderConfig,
		mdpress.ErrStyleNotFound,
		mdpress.ErrInvalidAssetPath,
	}},
}

// exitCodeFor maps err to an exit code. Wrapping with %w keeps the mapping.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	for _, class := range exitClasses {
		for _, target := range class.errs {
			if errors.Is(err, target) {
				return class.code
			}
		}
	}
	return ExitGeneral
}

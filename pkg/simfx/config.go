package simfx

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/hsiuhsiu/simfx-go/pkg/simfx/logging"
)

// EnvLibraryPath names the environment variable consulted when
// Config.LibraryPath is empty.
const EnvLibraryPath = "SIMFX_LIB_PATH"

// Config expresses the knobs needed to load the engine library.
type Config struct {
	// LibraryPath is the engine library file. When empty, Open consults
	// SIMFX_LIB_PATH and then looks for the platform's library name in the
	// working directory and next to the executable.
	LibraryPath string

	// ThreadCount is the default engine worker thread count for new models
	// and diffraction analyses. Zero lets the engine choose.
	ThreadCount int

	// RequiredVersion, when set, makes Open fail unless the engine reports a
	// version at least this recent (for example "11.2").
	RequiredVersion string

	// Logger receives lifecycle events. Nil discards them.
	Logger logging.Logger

	// RedactPaths keeps library and data file paths out of log records.
	// Errors still name the file.
	RedactPaths bool
}

// pathAttr is the log attribute for a file path, redacted when configured.
func (c Config) pathAttr(key, path string) slog.Attr {
	if c.RedactPaths {
		return logging.Redacted(key)
	}
	return slog.String(key, path)
}

func (c Config) logger() logging.Logger {
	if c.Logger == nil {
		return logging.Nop()
	}
	return c.Logger
}

// libraryNames lists the file names the engine ships under on each platform.
func libraryNames() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{"simfx64.dll", "simfx.dll"}
	case "darwin":
		return []string{"libsimfx.dylib"}
	}
	return []string{"libsimfx.so"}
}

func searchDirs() []string {
	var dirs []string
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	return dirs
}

// resolveLibraryPath applies the lookup order: Config.LibraryPath, then
// SIMFX_LIB_PATH, then the platform names in the search directories.
func (c Config) resolveLibraryPath() (string, error) {
	for _, p := range []string{c.LibraryPath, os.Getenv(EnvLibraryPath)} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrLibraryNotFound, p, err)
		}
		return p, nil
	}
	for _, dir := range searchDirs() {
		for _, name := range libraryNames() {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p, nil
			}
		}
	}
	return "", fmt.Errorf("%w: set Config.LibraryPath or %s", ErrLibraryNotFound, EnvLibraryPath)
}

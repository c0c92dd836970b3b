package mtml

import (
	"bufio"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"k8s.io/klog/v2"
)

const (
	// LibraryPathEnv overrides the search paths for libmtml. It may hold a
	// ":"-separated list of directories or the absolute path of the shared
	// object itself.
	LibraryPathEnv = "MTML_LIBRARY_PATH"
)

// sonames tried first, relying on the dynamic loader's own search order.
var librarySonames = []string{"libmtml.so.1", "libmtml.so"}

// dynamicLibrary wraps an open handle to libmtml together with a cache of
// resolved symbols, so repeated lookups of the same name pay the dlsym cost
// once.
type dynamicLibrary struct {
	libPath string
	handle  uintptr

	mu      sync.Mutex
	symbols map[string]uintptr
}

// loadedLibrary is the seam between the process-wide state and the dynamic
// loader; tests substitute a fake that binds stub functions instead.
type loadedLibrary interface {
	bind(symbols []symbol) error
	close() error
	path() string
}

// openMtmlLibrary locates and dlopens libmtml. It first tries the plain
// sonames (the dynamic loader searches its standard paths), then walks the
// explicit search paths (MTML_LIBRARY_PATH, /usr/local/musa/lib,
// LD_LIBRARY_PATH and /etc/ld.so.conf) looking for the file itself.
//
// Failure to locate or load the library is reported as KindLibraryNotFound,
// distinct from the KindSymbolNotFound raised later for missing symbols.
func openMtmlLibrary() (loadedLibrary, error) {
	candidates := make([]string, 0, 8)
	if env := os.Getenv(LibraryPathEnv); env != "" {
		for _, p := range strings.Split(env, ":") {
			if p == "" {
				continue
			}
			if path.Ext(p) != "" && !isDir(p) {
				candidates = append(candidates, p)
			}
		}
	}
	candidates = append(candidates, librarySonames...)
	for _, dir := range librarySearchPaths() {
		for _, soname := range librarySonames {
			candidates = append(candidates, path.Join(dir, soname))
		}
	}

	var firstErr error
	for _, candidate := range candidates {
		klog.V(2).Infof("trying to load MTML library %q", candidate)
		handle, err := purego.Dlopen(candidate, purego.RTLD_LAZY|purego.RTLD_LOCAL)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		klog.V(1).Infof("loaded MTML library %q", candidate)
		return &dynamicLibrary{
			libPath: candidate,
			handle:  handle,
			symbols: make(map[string]uintptr),
		}, nil
	}
	msg := fmt.Sprintf("could not load %s: set %s to the library location", librarySonames[0], LibraryPathEnv)
	if firstErr != nil {
		msg = fmt.Sprintf("%s (last loader error: %v)", msg, firstErr)
	}
	return nil, &Error{Code: ERROR_LIBRARY_NOT_FOUND, Kind: KindLibraryNotFound, Message: msg}
}

// symbol resolves a name to its address, caching the result.
func (dl *dynamicLibrary) symbol(name string) (uintptr, error) {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	if addr, ok := dl.symbols[name]; ok {
		return addr, nil
	}
	addr, err := purego.Dlsym(dl.handle, name)
	if err != nil || addr == 0 {
		return 0, &Error{
			Code:    ERROR_SYMBOL_NOT_FOUND,
			Kind:    KindSymbolNotFound,
			Message: fmt.Sprintf("symbol %q not found in %s", name, dl.libPath),
		}
	}
	dl.symbols[name] = addr
	return addr, nil
}

func (dl *dynamicLibrary) close() error {
	if err := purego.Dlclose(dl.handle); err != nil {
		return &Error{
			Code:    ERROR_UNKNOWN,
			Kind:    KindUnknown,
			Message: fmt.Sprintf("failed to close %s: %v", dl.libPath, err),
		}
	}
	return nil
}

func (dl *dynamicLibrary) path() string {
	return dl.libPath
}

var (
	reLdConfInclude = regexp.MustCompile(`^\s*include\s*(.*)$`)
	reLdConfComment = regexp.MustCompile(`^\s*#`)
	reLdConfPath    = regexp.MustCompile(`^\s*(.+?)\s*$`)
)

// librarySearchPaths returns the explicit directories searched for libmtml
// when the dynamic loader itself does not find it: MTML_LIBRARY_PATH
// entries, the MUSA SDK default, absolute LD_LIBRARY_PATH entries, and the
// directories configured in /etc/ld.so.conf.
func librarySearchPaths() []string {
	var paths []string
	if env := os.Getenv(LibraryPathEnv); env != "" {
		for _, p := range strings.Split(env, ":") {
			if p != "" && isDir(p) {
				paths = append(paths, p)
			}
		}
	}
	paths = append(paths, "/usr/local/musa/lib")
	for _, ldPath := range strings.Split(os.Getenv("LD_LIBRARY_PATH"), ":") {
		if ldPath == "" || !path.IsAbs(ldPath) {
			// No empty or relative paths.
			continue
		}
		paths = append(paths, ldPath)
	}
	return loadLibraryPaths(paths, "/etc/ld.so.conf")
}

// loadLibraryPaths appends the directories listed in an ld.so.conf style
// file, following its include directives recursively.
func loadLibraryPaths(paths []string, fileWithIncludes string) []string {
	klog.V(2).Infof("loading library paths from %q", fileWithIncludes)
	file, err := os.Open(fileWithIncludes)
	if err != nil {
		klog.V(2).Infof("failed to load library paths from %q: %v", fileWithIncludes, err)
		return paths
	}
	defer func() { _ = file.Close() }()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if parts := reLdConfInclude.FindStringSubmatch(line); len(parts) > 0 {
			files, err := filepath.Glob(parts[1])
			if err != nil {
				klog.V(2).Infof("failed to expand include entry %q: %v", parts[1], err)
				continue
			}
			for _, includeFile := range files {
				paths = loadLibraryPaths(paths, includeFile)
			}
		} else if reLdConfComment.MatchString(line) {
			continue
		} else if parts := reLdConfPath.FindStringSubmatch(line); len(parts) > 0 {
			paths = append(paths, parts[1])
		}
	}
	if err := scanner.Err(); err != nil {
		klog.V(2).Infof("error while loading library paths from %q: %v", fileWithIncludes, err)
	}
	return paths
}

func isDir(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.IsDir()
}

// goString copies a NUL-terminated C string at addr into a Go string.
func goString(addr uintptr) string {
	if addr == 0 {
		return ""
	}
	var b []byte
	for i := uintptr(0); ; i++ {
		c := *(*byte)(unsafe.Pointer(addr + i))
		if c == 0 {
			break
		}
		b = append(b, c)
	}
	return string(b)
}

// clen returns the length up to the first NUL, like C strlen on a sized
// buffer.
func clen(b []byte) int {
	for i, c := range b {
		if c == 0 {
			return i
		}
	}
	return len(b)
}

package pkg

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"unsafe"
)

// BytesToString converts bytes slice to a string without extra allocation
func BytesToString(buf []byte) string {
	return *(*string)(unsafe.Pointer(&buf))
}

// PathExists returns whether the given file or directory exists
func PathExists(path string, isDir bool) (bool, error) {
	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if isDir && !stat.IsDir() {
		return false, fmt.Errorf("%s is not a directory", path)
	}
	if !isDir && stat.IsDir() {
		return false, fmt.Errorf("%s is a directory", path)
	}
	return true, nil
}

// EnsureDir creates the directory (and parents) if it does not exist yet
func EnsureDir(path string) error {
	exists, err := PathExists(path, true)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return os.MkdirAll(path, 0o755)
}

// FormatFloat returns the shortest decimal representation of v, e.g. 2.5, 10000, 22.86
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatReal is FormatFloat that keeps a trailing ".0" on whole values, e.g. 2.0, 2.5, 22.86
func FormatReal(v float64) string {
	s := FormatFloat(v)
	if math.IsInf(v, 0) || math.IsNaN(v) || strings.ContainsAny(s, ".eE") {
		return s
	}
	return s + ".0"
}

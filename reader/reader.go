// Package reader loads a built gigly library and reads the type information
// embedded in it.
package reader

import (
	"github.com/coreos/pkg/dlopen"
	"github.com/pontaoski/gigly/compiler"
	"github.com/ztrue/tracerr"
)

import "C"

// ReadRaw returns the JSON stored in the library's type info symbol.
func ReadRaw(from string) (string, error) {
	handle, err := dlopen.GetHandle([]string{from})
	if err != nil {
		return "", tracerr.Wrap(err)
	}
	defer handle.Close()

	sym, err := handle.GetSymbolPointer(compiler.TypeInfoSymbol)
	if err != nil {
		return "", tracerr.Errorf("%s has no type information: %w", from, err)
	}

	return C.GoString((*C.char)(sym)), nil
}

func ReadTypeInfo(from string) (compiler.TypeInfo, error) {
	raw, err := ReadRaw(from)
	if err != nil {
		return compiler.TypeInfo{}, err
	}
	return compiler.DecodeTypeInfo([]byte(raw))
}

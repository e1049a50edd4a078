//go:build cgo

// Command stegshared builds the codec as a C shared library (go build -buildmode=c-shared).
// Every returned string is allocated with malloc and must be released with StegFreeString.
package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"log/slog"
	"os"
	"unsafe"

	steg "github.com/alza54/find-web-session-challenge"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

// StegGenerateImage hides message in the image at imgPath and writes the result to outPath, or next to the input
// if outPath is NULL or empty. It returns NULL on success and an error message otherwise.
//
//export StegGenerateImage
func StegGenerateImage(imgPath, message, outPath *C.char) *C.char {
	config := &steg.HideConfig{
		ImagePath: C.GoString(imgPath),
		Message:   C.GoString(message),
		Codec:     steg.DefaultConfig(),
	}
	if outPath != nil {
		config.OutPath = C.GoString(outPath)
	}

	if err := steg.Hide(config, logger); err != nil {
		return C.CString(err.Error())
	}
	return nil
}

// StegReadImage returns the message hidden in the image at imgPath. On failure it returns NULL and, if errOut
// is not NULL, stores the error message there.
//
//export StegReadImage
func StegReadImage(imgPath *C.char, errOut **C.char) *C.char {
	msg, err := steg.Dig(steg.DigConfig{ImagePath: C.GoString(imgPath), Codec: steg.DefaultConfig()}, logger)
	if err != nil {
		if errOut != nil {
			*errOut = C.CString(err.Error())
		}
		return nil
	}
	return C.CString(msg)
}

// StegFreeString releases a string returned by the library.
//
//export StegFreeString
func StegFreeString(s *C.char) {
	C.free(unsafe.Pointer(s))
}

func main() {}

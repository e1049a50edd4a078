//go:build js && wasm

// Command stegwasm exposes the codec to JavaScript when built for js/wasm:
//
//	stegEncodeImage(data: Uint8Array, message: string) -> Uint8Array | {error: string}
//	stegDecodeImage(data: Uint8Array) -> string | {error: string}
//
// Both use the default configuration, so images are interchangeable with the CLI's defaults.
package main

import (
	"log/slog"
	"syscall/js"

	steg "github.com/alza54/find-web-session-challenge"
)

var codec = steg.New(steg.DefaultConfig(), slog.Default())

func jsError(err error) any {
	return js.ValueOf(map[string]any{"error": err.Error()})
}

func bytesFromJS(v js.Value) []byte {
	b := make([]byte, v.Get("length").Int())
	js.CopyBytesToGo(b, v)
	return b
}

func encodeImage(_ js.Value, args []js.Value) any {
	if len(args) < 2 {
		return jsError(&steg.InvalidFormatError{ErrorDesc: "Expected the image bytes and a message."})
	}

	out, err := codec.EncodeBytes(bytesFromJS(args[0]), args[1].String())
	if err != nil {
		return jsError(err)
	}

	arr := js.Global().Get("Uint8Array").New(len(out))
	js.CopyBytesToJS(arr, out)
	return arr
}

func decodeImage(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return jsError(&steg.InvalidFormatError{ErrorDesc: "Expected the image bytes."})
	}

	msg, err := codec.DecodeBytes(bytesFromJS(args[0]))
	if err != nil {
		return jsError(err)
	}
	return msg
}

func main() {
	js.Global().Set("stegEncodeImage", js.FuncOf(encodeImage))
	js.Global().Set("stegDecodeImage", js.FuncOf(decodeImage))

	// Keep the exports alive
	select {}
}

package disk

import "os"

// SetWriteData replaces the function used to write block files and returns
// a function that restores the original.
func SetWriteData(fn func(f *os.File, data []byte) error) func() {
	orig := writeData
	writeData = fn
	return func() { writeData = orig }
}

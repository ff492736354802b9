package model

import "path/filepath"

// Source file classification. The ffmpeg tree builds three kinds of
// sources: plain C, GAS assembly (.S, preprocessed), and YASM assembly.
// Extensions are compared case-sensitively; .S and .s are not the same
// file kind.

func IsCFile(path string) bool {
	return filepath.Ext(path) == ".c"
}

func IsGasFile(path string) bool {
	return filepath.Ext(path) == ".S"
}

func IsYasmFile(path string) bool {
	return filepath.Ext(path) == ".asm"
}

func IsAssemblyFile(path string) bool {
	return IsGasFile(path) || IsYasmFile(path)
}

// IsSourceFile reports whether path names a buildable source file.
func IsSourceFile(path string) bool {
	return IsCFile(path) || IsAssemblyFile(path)
}

package reflectx

// BytesEncoder is implemented by values that render their own wire form.
type BytesEncoder interface {
	EncodeToBytes() ([]byte, error)
}

// BytesDecoder is implemented by values that parse their own wire form.
type BytesDecoder interface {
	DecodeFromBytes([]byte) error
}

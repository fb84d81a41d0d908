//go:build !linux

package symbols

// selectProvider on platforms without a cgo-free module enumerator: the
// capability is permanently absent and every call returns an empty list.
func selectProvider() provider {
	return noneProvider{}
}

package bgstrip

// StripBytes strips raw image bytes in memory and returns the result as PNG.
// When nothing changes, the original bytes are still re-encoded so callers
// always receive PNG.
func (s *Stripper) StripBytes(data []byte) ([]byte, Stats, error) {
	img, _, err := DecodeImageBytes(data)
	if err != nil {
		return nil, Stats{}, err
	}

	stripped, stats, err := s.Strip(img)
	if err != nil {
		return nil, Stats{}, err
	}

	out, err := EncodePNGBytes(stripped)
	if err != nil {
		return nil, Stats{}, err
	}
	return out, stats, nil
}

// StripBytes applies the default stripper to raw image bytes.
func StripBytes(data []byte) ([]byte, Stats, error) {
	return getDefaultStripper().StripBytes(data)
}

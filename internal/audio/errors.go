package audio

import "errors"

// ErrUnsupportedFormat indicates the file is not in a format this package can decode.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// ErrEmptyAudio indicates the decoded audio contains no samples.
var ErrEmptyAudio = errors.New("audio contains no samples")

package service

import "errors"

var ErrUnsupportedFormat = errors.New("unsupported report format")

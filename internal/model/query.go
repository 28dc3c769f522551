package model

import (
	"strings"
)

// QueryKind describes how a raw search input should be interpreted.
type QueryKind string

const (
	KindName    QueryKind = "name"
	KindURL     QueryKind = "url"
	KindBarcode QueryKind = "barcode"
)

// Valid reports whether k is one of the recognized kinds.
func (k QueryKind) Valid() bool {
	switch k {
	case KindName, KindURL, KindBarcode:
		return true
	}
	return false
}

// ClassifyQuery infers the kind of a raw input string. Inputs starting with
// "http" are product URLs, all-digit inputs are barcodes, everything else is a
// free-text product name.
func ClassifyQuery(raw string) QueryKind {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "http") {
		return KindURL
	}
	if trimmed != "" && isAllDigits(trimmed) {
		return KindBarcode
	}
	return KindName
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

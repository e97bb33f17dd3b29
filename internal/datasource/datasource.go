// Package datasource defines the contract for raw table inputs. A Source
// yields the bytes of one flat file; decoding and parsing happen downstream.
package datasource

import (
	"context"
	"io"
)

// Source opens a raw byte stream for one input table.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

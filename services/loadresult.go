package services

import "encoding/json"

type LoadStatus uint8

const (
	// LoadStatusUnconfigured means the data source is not configured, no request was made.
	LoadStatusUnconfigured LoadStatus = iota
	// LoadStatusPending means the value is still being loaded.
	LoadStatusPending
	// LoadStatusFailed means the request or decoding failed.
	LoadStatusFailed
	LoadStatusReady
)

func (s LoadStatus) String() string {
	switch s {
	case LoadStatusUnconfigured:
		return "unconfigured"
	case LoadStatusPending:
		return "pending"
	case LoadStatusFailed:
		return "failed"
	case LoadStatusReady:
		return "ready"
	}
	return "unknown"
}

// LoadResult holds an accessor result. Value is only set when Status is LoadStatusReady.
type LoadResult[T any] struct {
	Status LoadStatus
	Value  *T
	Raw    json.RawMessage
}

func (r LoadResult[T]) IsReady() bool {
	return r.Status == LoadStatusReady && r.Value != nil
}

// Get returns the value or nil if it is unavailable.
func (r LoadResult[T]) Get() *T {
	if r.Status != LoadStatusReady {
		return nil
	}
	return r.Value
}

package table

import "context"

// Source produces a fresh Table on every call.
type Source interface {
	Load(ctx context.Context) (*Table, error)
}

type FileSource struct {
	Path string
}

func (s FileSource) Load(ctx context.Context) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadFile(s.Path)
}

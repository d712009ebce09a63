package layermeta

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/oneconcern/chunkmap/pkg/layermeta/status"
	"github.com/oneconcern/chunkmap/pkg/model"
	"github.com/oneconcern/chunkmap/pkg/storage"
)

// Write content metadata as JSON on some storage
func Write(ctx context.Context, store storage.Store, key string, meta model.ContentMeta) error {
	if meta.Map == nil {
		meta.Map = map[string]string{}
	}
	if meta.Set == nil {
		meta.Set = []model.OwnerMetadata{}
	}

	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(meta)
	if err != nil {
		return status.ErrWrite.Wrap(err)
	}

	if err := storage.WriteAll(ctx, store, key, data); err != nil {
		return status.ErrWrite.WrapMessage("%s:%s", store, key).Wrap(err)
	}

	return nil
}

// Read content metadata from some storage
func Read(ctx context.Context, store storage.Store, key string) (model.ContentMeta, error) {
	data, err := storage.ReadAll(ctx, store, key)
	if err != nil {
		return model.ContentMeta{}, status.ErrRead.WrapMessage("%s:%s", store, key).Wrap(err)
	}

	var meta model.ContentMeta
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &meta); err != nil {
		return model.ContentMeta{}, status.ErrRead.WrapMessage("%s:%s", store, key).Wrap(err)
	}

	return meta, nil
}

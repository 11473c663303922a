package index

import (
	"encoding/json"
	"errors"
	"strings"

	bolt "go.etcd.io/bbolt"

	"github.com/trapx25/inkwell/internal/domain/content"
)

var ErrNotFound = errors.New("not found")

type ListOptions struct {
	Page int
	Size int
}

func normalizePaging(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 10
	}
	if size > 1000 {
		size = 1000
	}
	return page, size
}

func (s *Store) GetMeta(id string) (content.PostMeta, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return content.PostMeta{}, ErrNotFound
	}
	var m content.PostMeta
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bMeta)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &m)
	})
	return m, err
}

// List returns post metadata in chronological order (newest first).
func (s *Store) List(opt ListOptions) ([]content.PostMeta, error) {
	opt.Page, opt.Size = normalizePaging(opt.Page, opt.Size)

	var out []content.PostMeta
	err := s.db.View(func(tx *bolt.Tx) error {
		idx := tx.Bucket(bIdxDate)
		metaB := tx.Bucket(bMeta)
		if idx == nil || metaB == nil {
			return nil
		}
		return collect(idx.Cursor(), metaB, opt, &out)
	})
	return out, err
}

func (s *Store) ListByTag(tag string, opt ListOptions) ([]content.PostMeta, error) {
	return s.listBySub(bIdxTag, strings.ToLower(strings.TrimSpace(tag)), opt)
}

func (s *Store) ListByCategory(cat string, opt ListOptions) ([]content.PostMeta, error) {
	return s.listBySub(bIdxCat, strings.ToLower(strings.TrimSpace(cat)), opt)
}

func (s *Store) listBySub(parent []byte, key string, opt ListOptions) ([]content.PostMeta, error) {
	if key == "" {
		return nil, nil
	}
	opt.Page, opt.Size = normalizePaging(opt.Page, opt.Size)

	var out []content.PostMeta
	err := s.db.View(func(tx *bolt.Tx) error {
		parentB := tx.Bucket(parent)
		metaB := tx.Bucket(bMeta)
		if parentB == nil || metaB == nil {
			return nil
		}
		sb := parentB.Bucket([]byte(key))
		if sb == nil {
			return nil
		}
		return collect(sb.Cursor(), metaB, opt, &out)
	})
	return out, err
}

func collect(cur *bolt.Cursor, metaB *bolt.Bucket, opt ListOptions, out *[]content.PostMeta) error {
	skip := (opt.Page - 1) * opt.Size
	for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
		id := idFromDateIDKey(k)
		if id == "" {
			continue
		}
		v := metaB.Get([]byte(id))
		if v == nil {
			continue
		}
		var m content.PostMeta
		if err := json.Unmarshal(v, &m); err != nil {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		*out = append(*out, m)
		if len(*out) >= opt.Size {
			break
		}
	}
	return nil
}

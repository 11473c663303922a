package index

import (
	"encoding/json"
	"strings"

	bolt "go.etcd.io/bbolt"

	"github.com/trapx25/inkwell/internal/domain/content"
)

// Rebuild replaces the whole index with the given posts in one
// transaction. Nothing survives from the previous build: derived indexes
// are computed views, not incrementally maintained state.
func (s *Store) Rebuild(posts []content.Post) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		_ = tx.DeleteBucket(bMeta)
		_ = tx.DeleteBucket(bIdxDate)
		_ = tx.DeleteBucket(bIdxTag)
		_ = tx.DeleteBucket(bIdxCat)

		metaB, _ := tx.CreateBucket(bMeta)
		dateB, _ := tx.CreateBucket(bIdxDate)
		tagB, _ := tx.CreateBucket(bIdxTag)
		catB, _ := tx.CreateBucket(bIdxCat)

		for _, p := range posts {
			m := p.Meta
			if strings.TrimSpace(m.ID) == "" {
				continue
			}
			mb, err := json.Marshal(m)
			if err != nil {
				return err
			}
			if err := metaB.Put([]byte(m.ID), mb); err != nil {
				return err
			}

			key := makeDateIDKey(m.Date.UnixNano(), m.ID)
			if err := dateB.Put(key, []byte{1}); err != nil {
				return err
			}

			for _, tag := range m.Tags {
				if tag == "" {
					continue
				}
				sb, err := tagB.CreateBucketIfNotExists([]byte(tag))
				if err != nil {
					return err
				}
				if err := sb.Put(key, []byte{1}); err != nil {
					return err
				}
			}
			for _, cat := range m.Categories {
				if cat == "" {
					continue
				}
				sb, err := catB.CreateBucketIfNotExists([]byte(cat))
				if err != nil {
					return err
				}
				if err := sb.Put(key, []byte{1}); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

package index

var (
	bMeta    = []byte("meta")     // id -> metaBytes
	bIdxDate = []byte("idx_date") // invTime+0x00+id -> 1
	bIdxTag  = []byte("idx_tag")  // tag -> sub-bucket
	bIdxCat  = []byte("idx_cat")  // cat -> sub-bucket
)

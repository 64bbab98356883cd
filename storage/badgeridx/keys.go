package badgeridx

// Key prefixes for different data types
const (
	vectorRecordPrefix = "vecrec"
	indexMetaKey       = "vecmeta:dim"
)

// makeVectorKey generates a key for a vector record by id.
func makeVectorKey(id string) []byte {
	return []byte(vectorRecordPrefix + ":" + id)
}

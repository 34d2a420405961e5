package entity

// Image is a published media object. ID is the key in the media bucket.
type Image struct {
	ID  string
	URL string
}

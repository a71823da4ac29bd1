package wire

// Fixed response shapes of the private API. Only the fields the upload
// workflow observes are mapped; everything else is ignored on decode.

// UploadTarget is one server-issued destination for a video binary.
type UploadTarget struct {
	URL string `json:"url"`
	Job string `json:"job"`
}

// UploadJobResponse is returned when a video upload job is created.
type UploadJobResponse struct {
	UploadID        string         `json:"upload_id"`
	VideoUploadURLs []UploadTarget `json:"video_upload_urls"`
	Status          string         `json:"status"`
}

// AckResponse is the minimal acknowledgment shape shared by the photo
// transfer and thumbnail calls.
type AckResponse struct {
	UploadID string `json:"upload_id"`
	Status   string `json:"status"`
}

// Caption wraps the caption text on a media item.
type Caption struct {
	Text string `json:"text"`
}

// Item is the wire representation of a media item. Albums nest their
// children under carousel_media in rendering order.
type Item struct {
	ID             string   `json:"id"`
	PK             int64    `json:"pk"`
	Code           string   `json:"code"`
	MediaType      int      `json:"media_type"`
	OriginalWidth  int      `json:"original_width"`
	OriginalHeight int      `json:"original_height"`
	Caption        *Caption `json:"caption"`
	CarouselMedia  []Item   `json:"carousel_media"`
}

// SingleMediaResponse is returned by configure/expose for a single item.
type SingleMediaResponse struct {
	Media  Item   `json:"media"`
	Status string `json:"status"`
}

// AlbumResponse is returned by the sidecar configure call.
type AlbumResponse struct {
	Media           Item   `json:"media"`
	ClientSidecarID string `json:"client_sidecar_id"`
	Status          string `json:"status"`
}

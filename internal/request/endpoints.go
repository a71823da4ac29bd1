package request

// Endpoints of the private API, relative to BaseURL. The counterparty is a
// fixed external system; paths and the upload sub-host must match literally.
const (
	BaseURL    = "https://i.instagram.com/api/v1/"
	UploadHost = "upload.instagram.com"

	EndpointUploadPhoto      = "upload/photo/"
	EndpointUploadVideo      = "upload/video/"
	EndpointConfigure        = "media/configure/"
	EndpointConfigureVideo   = "media/configure/?video=1"
	EndpointConfigureSidecar = "media/configure_sidecar/"
)

package models

const (
	MaxCaptionLength = 500
	MaxImageSize     = 5 * 1024 * 1024
)

const (
	MediaTypeText  = "TEXT"
	MediaTypeImage = "IMAGE"
)

type PublishState string

const (
	PublishStateDraft            PublishState = "draft"
	PublishStateContainerCreated PublishState = "container_created"
	PublishStatePublished        PublishState = "published"
	PublishStateFailed           PublishState = "failed"
)

// Image is an uploaded file as received from the client, before any validation.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte

	released bool
}

// Release drops the image bytes. The image must not be used afterwards.
func (i *Image) Release() {
	if i == nil {
		return
	}
	i.Data = nil
	i.released = true
}

func (i *Image) Released() bool {
	return i != nil && i.released
}

type Draft struct {
	Caption string
	Image   *Image
}

func (d *Draft) HasImage() bool {
	return d != nil && d.Image != nil
}

type PublishedPost struct {
	CreationID  string
	ThreadID    string
	MediaType   string
	Transitions []PublishState
}

package mediacatalog

// ClassPolicy is the per-asset-class upload policy: which MIME types are
// accepted, how large an upload may be, and which storage folder the class's
// objects live under.
type ClassPolicy struct {
	Folder       string
	MaxBytes     int64
	AllowedTypes map[string]struct{}
}

var certificatePolicy = ClassPolicy{
	Folder:   "certificates",
	MaxBytes: 10 << 20,
	AllowedTypes: map[string]struct{}{
		"application/pdf": {},
		"image/jpeg":      {},
		"image/jpg":       {},
		"image/png":       {},
	},
}

var galleryImagePolicy = ClassPolicy{
	Folder:   "gallery",
	MaxBytes: 5 << 20,
	AllowedTypes: map[string]struct{}{
		"image/jpeg": {},
		"image/jpg":  {},
		"image/png":  {},
		"image/gif":  {},
	},
}

var galleryVideoPolicy = ClassPolicy{
	Folder:   "gallery",
	MaxBytes: 50 << 20,
	AllowedTypes: map[string]struct{}{
		"video/mp4":        {},
		"video/avi":        {},
		"video/quicktime":  {},
		"video/x-ms-wmv":   {},
		"video/x-matroska": {},
	},
}

// PolicyFor returns the upload policy for the given asset class. Gallery
// policies depend on the media type; certificates ignore it.
func PolicyFor(class AssetClass, mediaType MediaType) (ClassPolicy, error) {
	switch class {
	case ClassCertificate:
		return certificatePolicy, nil
	case ClassGallery:
		switch mediaType {
		case MediaTypeImage:
			return galleryImagePolicy, nil
		case MediaTypeVideo:
			return galleryVideoPolicy, nil
		default:
			return ClassPolicy{}, ErrUnknownMediaType
		}
	default:
		return ClassPolicy{}, ErrUnknownAssetClass
	}
}

// Validate checks an upload's declared content type and size against the
// policy. Pure: no storage or catalog side effects on rejection.
func (p ClassPolicy) Validate(contentType string, size int64) error {
	if _, ok := p.AllowedTypes[contentType]; !ok {
		return &ValidationError{
			Reason: ReasonUnsupportedType,
			Field:  "content_type",
			Detail: contentType,
		}
	}
	if size > p.MaxBytes {
		return &ValidationError{
			Reason: ReasonTooLarge,
			Field:  "file",
			Detail: "exceeds class limit",
		}
	}
	return nil
}

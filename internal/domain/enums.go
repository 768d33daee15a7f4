package domain

// ReceiptStatus represents the review lifecycle of a receipt.
// The pipeline always creates receipts as pending; the review workflow
// moves them to approved or rejected.
type ReceiptStatus string

const (
	ReceiptStatusPending  ReceiptStatus = "pending"
	ReceiptStatusApproved ReceiptStatus = "approved"
	ReceiptStatusRejected ReceiptStatus = "rejected"
)

// Valid reports whether s is a known receipt status.
func (s ReceiptStatus) Valid() bool {
	switch s {
	case ReceiptStatusPending, ReceiptStatusApproved, ReceiptStatusRejected:
		return true
	}
	return false
}

// FraudFlag is appended to a receipt's flags when the anomaly scorer
// marks its feature vector as anomalous.
const FraudFlag = "Potential fraud detected"

// ImageType represents the allowed receipt image types for upload.
type ImageType string

const (
	ImageTypeJPG ImageType = "jpg"
	ImageTypePNG ImageType = "png"
)

// AllowedImageTypes maps ImageType to its MIME content type.
var AllowedImageTypes = map[ImageType]string{
	ImageTypeJPG: "image/jpeg",
	ImageTypePNG: "image/png",
}

// AllowedContentTypes maps MIME content types back to ImageType.
var AllowedContentTypes = map[string]ImageType{
	"image/jpeg": ImageTypeJPG,
	"image/png":  ImageTypePNG,
}

// AllowedExtensions maps file extensions (without dot) to ImageType.
var AllowedExtensions = map[string]ImageType{
	"jpg":  ImageTypeJPG,
	"jpeg": ImageTypeJPG,
	"png":  ImageTypePNG,
}

package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// 补救证明附件允许的类型
const (
	MimeImage = "image/"
	MimePDF   = "application/pdf"
)

var (
	AllowedProofExtensions = []string{".png", ".jpg", ".jpeg", ".pdf", ".txt", ".md"}
)

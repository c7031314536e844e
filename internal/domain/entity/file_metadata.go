package entity

import (
	"time"
)

type UploadFolder string

const (
	FolderVerification UploadFolder = "verification"
	FolderListings     UploadFolder = "listings"
	FolderPosts        UploadFolder = "posts"
	FolderStories      UploadFolder = "stories"
	FolderChat         UploadFolder = "chat"
)

func (f UploadFolder) Valid() bool {
	switch f {
	case FolderVerification, FolderListings, FolderPosts, FolderStories, FolderChat:
		return true
	}
	return false
}

// Public reports whether objects in the folder get a public URL. Verification
// documents are only readable through signed URLs.
func (f UploadFolder) Public() bool {
	return f != FolderVerification
}

// FileMetadata records an object uploaded to the bucket.
type FileMetadata struct {
	ID         string       `json:"id" firestore:"id"`
	URL        string       `json:"url" firestore:"url"`
	ObjectName string       `json:"object_name" firestore:"objectName"`
	Folder     UploadFolder `json:"folder" firestore:"folder"`
	UploadedBy string       `json:"uploaded_by" firestore:"uploadedBy"`
	Filename   string       `json:"filename" firestore:"filename"`
	FileType   string       `json:"file_type" firestore:"fileType"`
	FileSize   int64        `json:"file_size" firestore:"fileSize"`
	IsPublic   bool         `json:"is_public" firestore:"isPublic"`
	CreatedAt  time.Time    `json:"created_at" firestore:"createdAt"`
}

package utils

import (
	"bytes"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

// S3Config holds the connection settings for the S3-compatible object store
// (PSCloud) that serves request images.
type S3Config struct {
	AccessKey     string
	SecretKey     string
	Bucket        string
	Region        string
	Endpoint      string
	PublicBaseURL string
}

type S3Uploader struct {
	client  *s3.S3
	bucket  string
	baseURL string
}

func NewS3Uploader(cfg S3Config) *S3Uploader {
	sess := session.Must(session.NewSession(&aws.Config{
		Region:   aws.String(cfg.Region),
		Endpoint: aws.String(cfg.Endpoint),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKey, cfg.SecretKey, "",
		),
	}))
	return &S3Uploader{
		client:  s3.New(sess),
		bucket:  cfg.Bucket,
		baseURL: cfg.PublicBaseURL,
	}
}

// UploadFile stores the file under a client-generated unique key and returns
// its public URL.
func (u *S3Uploader) UploadFile(file []byte, contentType, folder string) (string, error) {
	if contentType == "" {
		contentType = "image/jpeg"
	}
	filePath := path.Join(folder, uuid.New().String())

	_, err := u.client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(filePath),
		Body:          bytes.NewReader(file),
		ContentLength: aws.Int64(int64(len(file))),
		ContentType:   aws.String(contentType),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload file to S3: %v", err)
	}

	return fmt.Sprintf("%s/%s", u.baseURL, filePath), nil
}

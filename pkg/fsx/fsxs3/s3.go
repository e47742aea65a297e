// Package fsxs3 implements fsx.FileSystem on an S3 bucket.
package fsxs3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmichel1/vigil/pkg/fsx"
)

// S3FileSystem implements fsx.FileSystem over one bucket and key prefix.
type S3FileSystem struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3FileSystem creates a new S3-backed file system.
func NewS3FileSystem(client *s3.Client, bucket, prefix string) *S3FileSystem {
	return &S3FileSystem{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// ReadFile implements fsx.FileReader.
func (fs *S3FileSystem) ReadFile(ctx context.Context, filePath string) ([]byte, error) {
	out, err := fs.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(fs.key(filePath)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read s3 object %s: %w", filePath, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read s3 object body %s: %w", filePath, err)
	}
	return data, nil
}

// List implements fsx.FileReader. Only direct children of the given path are
// returned, mirroring a directory listing.
func (fs *S3FileSystem) List(ctx context.Context, dirPath string) ([]fsx.FileInfo, error) {
	prefix := fs.key(dirPath)
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var fileInfos []fsx.FileInfo
	paginator := s3.NewListObjectsV2Paginator(fs.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(fs.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list s3 objects under %s: %w", dirPath, err)
		}
		for _, obj := range page.Contents {
			info := fsx.FileInfo{
				Name: path.Base(aws.ToString(obj.Key)),
				Size: aws.ToInt64(obj.Size),
			}
			if obj.LastModified != nil {
				info.ModTime = *obj.LastModified
			}
			fileInfos = append(fileInfos, info)
		}
		for _, common := range page.CommonPrefixes {
			fileInfos = append(fileInfos, fsx.FileInfo{
				Name:  path.Base(strings.TrimSuffix(aws.ToString(common.Prefix), "/")),
				IsDir: true,
			})
		}
	}
	return fileInfos, nil
}

// Exists implements fsx.FileReader.
func (fs *S3FileSystem) Exists(ctx context.Context, filePath string) (bool, error) {
	_, err := fs.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(fs.key(filePath)),
	})
	if err != nil {
		if strings.Contains(err.Error(), "NotFound") || strings.Contains(err.Error(), "404") {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat s3 object %s: %w", filePath, err)
	}
	return true, nil
}

// WriteFile implements fsx.FileWriter.
func (fs *S3FileSystem) WriteFile(ctx context.Context, filePath string, data []byte) error {
	_, err := fs.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(fs.key(filePath)),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("failed to write s3 object %s: %w", filePath, err)
	}
	return nil
}

// Join implements fsx.PathOperations.
func (fs *S3FileSystem) Join(elem ...string) string {
	return path.Join(elem...)
}

func (fs *S3FileSystem) key(filePath string) string {
	filePath = strings.TrimLeft(filePath, "/")
	if fs.prefix == "" {
		return filePath
	}
	return fs.prefix + "/" + filePath
}

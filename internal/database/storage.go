package database

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hypernova-labs/kassa-sdk/internal/config"
	"github.com/sirupsen/logrus"
)

// ObjectStore es el subconjunto de la API de S3 que usa el archivo
type ObjectStore interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// DocumentArchive guarda en S3 el JSON enviado a la caja y los recibos PDF
type DocumentArchive struct {
	store  ObjectStore
	bucket string
	logger *logrus.Logger
}

// NewS3Client crea un cliente S3 con credenciales estáticas. Un endpoint
// propio activa el direccionamiento por ruta (MinIO, Supabase, R2).
func NewS3Client(ctx context.Context, cfg *config.StorageConfig) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.StaticCredentialsProvider{
			Value: aws.Credentials{
				AccessKeyID:     cfg.AccessKeyID,
				SecretAccessKey: cfg.SecretAccessKey,
			},
		}))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error creating AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// NewDocumentArchive crea el archivo sobre el bucket indicado
func NewDocumentArchive(store ObjectStore, bucket string, logger *logrus.Logger) *DocumentArchive {
	return &DocumentArchive{store: store, bucket: bucket, logger: logger}
}

// Put guarda un objeto y retorna su clave
func (a *DocumentArchive) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := a.store.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("error uploading %s to archive: %w", key, err)
	}

	a.logger.WithFields(logrus.Fields{
		"bucket": a.bucket,
		"key":    key,
		"size":   len(data),
	}).Debug("Document archived")

	return key, nil
}

// Get descarga un objeto archivado
func (a *DocumentArchive) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := a.store.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("error downloading %s from archive: %w", key, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading archived document: %w", err)
	}
	return data, nil
}

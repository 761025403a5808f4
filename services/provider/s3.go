package provider

import (
	"context"
	"net/http"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/pkg/errors"

	"github.com/customeros/sleeper/interfaces"
	"github.com/customeros/sleeper/internal/config"
	sleepererrors "github.com/customeros/sleeper/internal/errors"
	"github.com/customeros/sleeper/internal/logger"
	"github.com/customeros/sleeper/internal/tracing"
	"github.com/customeros/sleeper/internal/utils"
)

var errObjectNotFound = errors.New("object not found")

type objectDownloader interface {
	Download(ctx context.Context, bucket, key string) (string, error)
}

type s3Downloader struct {
	downloader *s3manager.Downloader
}

func newS3Downloader(cfg config.S3Config) (*s3Downloader, error) {
	awsConfig := aws.NewConfig().WithRegion(cfg.Region)
	if cfg.Endpoint != "" {
		awsConfig = awsConfig.WithEndpoint(cfg.Endpoint).WithS3ForcePathStyle(true)
	}
	if cfg.Timeout > 0 {
		awsConfig = awsConfig.WithHTTPClient(&http.Client{Timeout: cfg.Timeout})
	}
	s, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, errors.Wrap(err, "creating aws session")
	}
	return &s3Downloader{downloader: s3manager.NewDownloader(s)}, nil
}

func (d *s3Downloader) Download(ctx context.Context, bucket, key string) (string, error) {
	span, ctx := tracing.StartTracerSpan(ctx, "s3Downloader.Download")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	buffer := &aws.WriteAtBuffer{}
	_, err := d.downloader.DownloadWithContext(ctx, buffer, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isMissingObject(err) {
			return "", errObjectNotFound
		}
		return "", err
	}
	return string(buffer.Bytes()), nil
}

func isMissingObject(err error) bool {
	var reqErr awserr.RequestFailure
	if errors.As(err, &reqErr) && reqErr.StatusCode() == http.StatusNotFound {
		return true
	}
	var awsErr awserr.Error
	if errors.As(err, &awsErr) {
		switch awsErr.Code() {
		case s3.ErrCodeNoSuchKey, s3.ErrCodeNoSuchBucket, "NotFound":
			return true
		}
	}
	return false
}

// S3Provider downloads one object per check. A missing object means not found.
type S3Provider struct {
	cfg        config.S3Config
	downloader objectDownloader
	parser     interfaces.Parser
	log        logger.Logger
}

func NewS3Provider(cfg config.S3Config, parser interfaces.Parser, log logger.Logger) (*S3Provider, error) {
	if utils.IsBlank(cfg.Bucket) || utils.IsBlank(cfg.Key) {
		return nil, sleepererrors.Configurationf("s3", "s3bucket and s3key are required")
	}
	downloader, err := newS3Downloader(cfg)
	if err != nil {
		return nil, sleepererrors.Configuration("s3", err)
	}
	return &S3Provider{cfg: cfg, downloader: downloader, parser: parser, log: log}, nil
}

func (p *S3Provider) Name() string {
	return NameS3
}

func (p *S3Provider) Check(ctx context.Context) (bool, error) {
	span, ctx := tracing.StartTracerSpan(ctx, "S3Provider.Check")
	defer span.Finish()
	tracing.TagComponentProvider(span)
	tracing.TagProvider(span, NameS3)
	span.SetTag("bucket", p.cfg.Bucket)

	content, err := p.downloader.Download(ctx, p.cfg.Bucket, p.cfg.Key)
	if errors.Is(err, errObjectNotFound) {
		if p.cfg.Verbose {
			p.log.Infof("Object s3://%s/%s does not exist yet", p.cfg.Bucket, p.cfg.Key)
		}
		return false, nil
	}
	if err != nil {
		tracing.TraceErr(span, err)
		return false, sleepererrors.Transport("s3 download", errors.Wrapf(err, "s3://%s/%s", p.cfg.Bucket, p.cfg.Key))
	}

	return p.parser.PhraseExists(p.cfg.Keyphrase, content), nil
}

func (p *S3Provider) Status() map[string]string {
	return map[string]string{"object": "s3://" + p.cfg.Bucket + "/" + p.cfg.Key}
}

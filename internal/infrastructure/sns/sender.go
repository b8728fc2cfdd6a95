package sns

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/beaware-fyi/beaware-api/internal/config"
	"github.com/beaware-fyi/beaware-api/internal/domain"
)

// AlertPublisher pushes moderation alerts to an SNS topic so admins hear
// about new reports without polling.
type AlertPublisher struct {
	client   *sns.Client
	topicARN string
}

func NewAlertPublisher(cfg *config.Config) (*AlertPublisher, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	clientOpts := []func(*sns.Options){}
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *sns.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}
	return &AlertPublisher{
		client:   sns.NewFromConfig(awsCfg, clientOpts...),
		topicARN: cfg.ModerationTopicARN,
	}, nil
}

type reportAlert struct {
	ReportID   string `json:"report_id"`
	ScamType   string `json:"scam_type"`
	Identifier string `json:"identifier"`
	ReportedBy string `json:"reported_by"`
	ReportedAt string `json:"reported_at"`
}

// PublishReportAlert notifies the moderation topic about a newly filed report.
func (p *AlertPublisher) PublishReportAlert(ctx context.Context, r *domain.ScamReport) error {
	body, err := json.Marshal(reportAlert{
		ReportID:   r.ReportID,
		ScamType:   r.ScamType,
		Identifier: r.Identifier(),
		ReportedBy: r.ReportedBy,
		ReportedAt: r.ReportedAt.Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal report alert: %w", err)
	}
	subject := fmt.Sprintf("New %s scam report", r.ScamType)
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(string(body)),
	})
	return err
}

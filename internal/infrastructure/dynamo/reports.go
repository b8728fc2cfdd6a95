package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/beaware-fyi/beaware-api/internal/domain"
)

// ReportRepo provides typed DynamoDB operations for the scam_reports table.
type ReportRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewReportRepo(client *dynamodb.Client, tableName string) *ReportRepo {
	return &ReportRepo{client: client, tableName: tableName}
}

func (r *ReportRepo) Put(ctx context.Context, rep *domain.ScamReport) error {
	item, err := attributevalue.MarshalMap(rep)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put report: %w: %v", domain.ErrUnavailable, err)
	}
	return nil
}

func (r *ReportRepo) Get(ctx context.Context, reportID string) (*domain.ScamReport, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("report_id", reportID),
	})
	if err != nil {
		return nil, fmt.Errorf("get report: %w: %v", domain.ErrUnavailable, err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("report %s: %w", reportID, domain.ErrNotFound)
	}
	var rep domain.ScamReport
	if err := attributevalue.UnmarshalMap(out.Item, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *ReportRepo) Update(ctx context.Context, reportID string, updates map[string]interface{}) error {
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("report_id", reportID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if err != nil {
		return fmt.Errorf("update report: %w: %v", domain.ErrUnavailable, err)
	}
	return nil
}

// ListByType returns every report of one scam type, newest first, following
// the scam_type-reported_at-index through all pages.
func (r *ReportRepo) ListByType(ctx context.Context, scamType string) ([]domain.ScamReport, error) {
	var (
		reports  []domain.ScamReport
		startKey map[string]types.AttributeValue
	)
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String("scam_type-reported_at-index"),
			KeyConditionExpression: aws.String("scam_type = :t"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":t": &types.AttributeValueMemberS{Value: scamType},
			},
			ScanIndexForward:  aws.Bool(false),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("query reports: %w: %v", domain.ErrUnavailable, err)
		}
		var page []domain.ScamReport
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		reports = append(reports, page...)
		if out.LastEvaluatedKey == nil {
			return reports, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// ListAll returns every report in the table regardless of type.
func (r *ReportRepo) ListAll(ctx context.Context) ([]domain.ScamReport, error) {
	var (
		reports  []domain.ScamReport
		startKey map[string]types.AttributeValue
	)
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scan reports: %w: %v", domain.ErrUnavailable, err)
		}
		var page []domain.ScamReport
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		reports = append(reports, page...)
		if out.LastEvaluatedKey == nil {
			return reports, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// ScanPage returns one page of reports, optionally filtered by scam type.
// cursor is a base64-encoded report_id used as ExclusiveStartKey.
func (r *ReportRepo) ScanPage(ctx context.Context, scamType string, limit int32, cursor string) ([]domain.ScamReport, string, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
		Limit:     aws.Int32(limit),
	}
	if scamType != "" {
		input.FilterExpression = aws.String("scam_type = :t")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberS{Value: scamType},
		}
	}
	if cursor != "" {
		reportID, err := decodeCursor(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cursor: %w", domain.ErrBadRequest)
		}
		input.ExclusiveStartKey = strKey("report_id", reportID)
	}
	out, err := r.client.Scan(ctx, input)
	if err != nil {
		return nil, "", fmt.Errorf("scan reports: %w: %v", domain.ErrUnavailable, err)
	}
	var reports []domain.ScamReport
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &reports); err != nil {
		return nil, "", err
	}
	nextCursor := ""
	if v, ok := out.LastEvaluatedKey["report_id"].(*types.AttributeValueMemberS); ok {
		nextCursor = encodeCursor(v.Value)
	}
	return reports, nextCursor, nil
}

package db

import (
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/pianov/config"
	"github.com/jsphweid/pianov/constants"
	"github.com/jsphweid/pianov/model"
	"github.com/pkg/errors"
)

type MetadataStore struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func New(client dynamodbiface.DynamoDBAPI, table string) *MetadataStore {
	return &MetadataStore{client: client, table: table}
}

// Connect returns nil when no endpoint is configured.
func Connect(cfg config.MetadataConfig) (*MetadataStore, error) {
	if cfg.Endpoint == "" {
		return nil, nil
	}
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String(cfg.Region),
		Endpoint: aws.String(cfg.Endpoint),
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create a new DynamoDB session")
	}
	return New(dynamodb.New(sess), cfg.Table), nil
}

// GetSongMetadatas looks up songs by file name. Names without an entry are
// missing from the result.
func (m *MetadataStore) GetSongMetadatas(filenames []string) (map[string]model.SongMetadata, error) {
	if len(filenames) > constants.MaxMetadataBatch {
		return nil, errors.Errorf("can look up at most %d songs at once, got %d", constants.MaxMetadataBatch, len(filenames))
	}

	res := make(map[string]model.SongMetadata)
	if len(filenames) == 0 {
		return res, nil
	}

	var keys []map[string]*dynamodb.AttributeValue
	for _, filename := range filenames {
		keys = append(keys, map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(filename)},
		})
	}

	input := &dynamodb.BatchGetItemInput{
		RequestItems: map[string]*dynamodb.KeysAndAttributes{
			m.table: {Keys: keys},
		},
	}
	out, err := m.client.BatchGetItem(input)
	if err != nil {
		return nil, errors.Wrap(err, "error from DynamoDB")
	}

	for _, item := range out.Responses[m.table] {
		pk, s := parseItem(item)
		if pk != "" {
			res[pk] = s
		}
	}
	return res, nil
}

func stringAttr(item map[string]*dynamodb.AttributeValue, name string) string {
	if v, ok := item[name]; ok && v != nil && v.S != nil {
		return *v.S
	}
	return ""
}

func parseItem(item map[string]*dynamodb.AttributeValue) (string, model.SongMetadata) {
	var s model.SongMetadata
	if v, ok := item["Year"]; ok && v != nil && v.N != nil {
		year, _ := strconv.ParseUint(*v.N, 10, 32)
		s.Year = uint(year)
	}
	s.Artist = stringAttr(item, "Artist")
	s.Title = stringAttr(item, "Title")
	return stringAttr(item, "PK"), s
}

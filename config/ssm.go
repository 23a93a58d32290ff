package config

import (
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// ParameterLister is the subset of the SSM client used to read parameters.
type ParameterLister interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// NewSSMClient builds an SSM client from the default AWS credential chain.
func NewSSMClient(ctx context.Context) (*ssm.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return ssm.NewFromConfig(cfg), nil
}

// OverlayParameters copies every parameter under parameterPath into c, keyed by the last
// path segment (/blog/prod/SMTP_PASS -> SMTP_PASS). Values already present in c win, so
// the environment can still override the parameter store.
func OverlayParameters(ctx context.Context, client ParameterLister, parameterPath string, c map[string]string) (int, error) {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(parameterPath),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	applied := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return applied, fmt.Errorf("read parameters under %s: %w", parameterPath, err)
		}

		for _, p := range page.Parameters {
			key := path.Base(aws.ToString(p.Name))
			if _, exists := c[key]; exists {
				log.Debug().Str("key", key).Msg("Environment overrides SSM parameter")
				continue
			}
			c[key] = aws.ToString(p.Value)
			applied++
		}
	}

	return applied, nil
}

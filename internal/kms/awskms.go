package kms

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/kms/types"

	dserrors "github.com/systmms/secretcore/internal/errors"
)

// kmsClient is the subset of the generated AWS KMS client this adapter
// uses, narrowed for testability the way the provider layer elsewhere in
// this codebase narrows its SDK clients to an interface.
type kmsClient interface {
	GenerateDataKey(ctx context.Context, params *kms.GenerateDataKeyInput, optFns ...func(*kms.Options)) (*kms.GenerateDataKeyOutput, error)
	Decrypt(ctx context.Context, params *kms.DecryptInput, optFns ...func(*kms.Options)) (*kms.DecryptOutput, error)
}

// AWSKMS generates and unwraps data keys via AWS KMS. It is the default
// adapter selected by encrypt_type=AWS_KMS.
type AWSKMS struct {
	client kmsClient
	region string
}

// Config configures the AWS KMS adapter. When AWSConfig is nil, the default
// AWS config chain is loaded (environment, shared config, IMDS).
type Config struct {
	Region    string
	AWSConfig *aws.Config
}

func New(ctx context.Context, cfg Config) (*AWSKMS, error) {
	awsCfg := cfg.AWSConfig
	if awsCfg == nil {
		loaded, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, dserrors.Wrap(dserrors.KindWrongConfiguration, "kms.aws", err)
		}
		awsCfg = &loaded
	}
	return &AWSKMS{client: kms.NewFromConfig(*awsCfg), region: cfg.Region}, nil
}

func (a *AWSKMS) Name() string { return EncryptTypeAWSKMS }

func (a *AWSKMS) GenerateDataKey(ctx context.Context, keyAlias string, context_ map[string]string) ([]byte, []byte, error) {
	out, err := a.client.GenerateDataKey(ctx, &kms.GenerateDataKeyInput{
		KeyId:             aws.String(keyAlias),
		KeySpec:           types.DataKeySpecAes256,
		EncryptionContext: context_,
	})
	if err != nil {
		return nil, nil, dserrors.Wrap(dserrors.KindKMSUnavailable, "kms.aws", fmt.Errorf("generate data key: %w", err))
	}
	return out.Plaintext, out.CiphertextBlob, nil
}

func (a *AWSKMS) DecryptDataKey(ctx context.Context, keyAlias string, wrappedKey []byte, context_ map[string]string) ([]byte, error) {
	out, err := a.client.Decrypt(ctx, &kms.DecryptInput{
		KeyId:             aws.String(keyAlias),
		CiphertextBlob:    wrappedKey,
		EncryptionContext: context_,
	})
	if err != nil {
		return nil, dserrors.Wrap(dserrors.KindKMSUnavailable, "kms.aws", fmt.Errorf("decrypt data key: %w", err))
	}
	return out.Plaintext, nil
}

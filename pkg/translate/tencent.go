package translate

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/profile"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/regions"
	tmt "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/tmt/v20180321"
)

var logger = log.With().Str("component", "translate").Logger()

// 单次批量翻译的最大条数
const batchSize = 50

var _ Translator = (*Tencent)(nil)

// Tencent 腾讯云机器翻译
type Tencent struct {
	client *tmt.Client
	target string
}

// NewTencent region 为空时使用广州，target 为空时翻译为中文
func NewTencent(secretID, secretKey, region, target string) (*Tencent, error) {
	if secretID == "" || secretKey == "" {
		return nil, errors.New("tencent cloud secret id and key are required")
	}
	if region == "" {
		region = regions.Guangzhou
	}
	if target == "" {
		target = "zh"
	}

	cpf := profile.NewClientProfile()
	cpf.HttpProfile.ReqMethod = "POST"
	cpf.HttpProfile.ReqTimeout = 10

	client, err := tmt.NewClient(common.NewCredential(secretID, secretKey), region, cpf)
	if err != nil {
		return nil, fmt.Errorf("failed to create tencent tmt client: %w", err)
	}
	return &Tencent{client: client, target: target}, nil
}

func (t *Tencent) Translate(ctx context.Context, texts []string) ([]string, error) {
	result := make([]string, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := min(start+batchSize, len(texts))

		request := tmt.NewTextTranslateBatchRequest()
		request.Source = common.StringPtr("auto")
		request.Target = common.StringPtr(t.target)
		request.ProjectId = common.Int64Ptr(0)
		request.SourceTextList = common.StringPtrs(texts[start:end])

		response, err := t.client.TextTranslateBatchWithContext(ctx, request)
		if err != nil {
			logger.Error().Err(err).Int("batch_start", start).Msg("failed to send request")
			return nil, fmt.Errorf("tencent translate: %w", err)
		}
		if len(response.Response.TargetTextList) != end-start {
			return nil, fmt.Errorf("tencent translate: expected %d results, got %d", end-start, len(response.Response.TargetTextList))
		}
		for _, text := range response.Response.TargetTextList {
			if text == nil {
				result = append(result, "")
				continue
			}
			result = append(result, *text)
		}
	}
	return result, nil
}

package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/facility-locator/internal/domain"
	"github.com/facility-locator/internal/domain/repository"
)

// extractSystemPrompt instructs the model to answer with a single JSON
// object naming the outlet, branch included, 점 suffix stripped.
const extractSystemPrompt = `너는 데이터 추출 전문가야. 사용자 질문에서 '마트 이름과 지점명'을 모두 추출해.
반드시 이 형식으로만 답해: {"mart_name": "마트이름 지점명"}

예시:
- 입력: "롯데마트 서울역점에서 가장 가까운 소방서" → 출력: {"mart_name": "롯데마트 서울역"}
- 입력: "이마트 용산점 근처 소방서" → 출력: {"mart_name": "이마트 용산"}
- 입력: "GS25 명동점" → 출력: {"mart_name": "GS25 명동"}

중요: "점"은 제외하고 지점명까지 포함해서 추출해.`

var (
	// fieldPattern recovers the named field from model output that is
	// almost-but-not-quite JSON.
	fieldPattern = regexp.MustCompile(`"mart_name"\s*:\s*"([^"]+)"`)

	// brandPattern matches a known brand followed by a branch name ending
	// in the 점 suffix. The lazy branch group stops at the first 점, which
	// also drops any trailing particles (점에서, 점이...).
	brandPattern = regexp.MustCompile(`(롯데마트|이마트|GS25|CU|세븐일레븐|홈플러스)\s*([가-힣]+?)점`)

	brandKeywords = []string{"롯데마트", "이마트", "GS25", "CU", "세븐일레븐", "홈플러스"}
)

// ExtractUseCase turns raw query text into a best-effort entity name via
// a fixed-priority cascade: model call, JSON parse, field regex, brand
// pattern, brand keyword, first token. It never fails; the worst outcome
// is an empty result tagged SourceNone.
type ExtractUseCase struct {
	llm       repository.LLMRepository
	cacheRepo repository.CacheRepository
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewExtractUseCase creates the extractor. llm may be nil to disable the
// model stages; cacheRepo may be nil to disable caching.
func NewExtractUseCase(
	llm repository.LLMRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	cacheTTL time.Duration,
) *ExtractUseCase {
	return &ExtractUseCase{
		llm:       llm,
		cacheRepo: cacheRepo,
		logger:    logger,
		cacheTTL:  cacheTTL,
	}
}

// Extract runs the cascade for text. The cache is advisory: a hit skips
// the model call, any cache error is logged and ignored.
func (uc *ExtractUseCase) Extract(ctx context.Context, text string) domain.ExtractionResult {
	if cached := uc.fromCache(ctx, text); cached != nil {
		return *cached
	}

	result := uc.runCascade(ctx, text)

	uc.logger.Info("Extraction completed",
		zap.String("candidate", result.CandidateName),
		zap.String("source", string(result.Source)),
	)

	if result.Source != domain.SourceNone {
		uc.toCache(ctx, text, result)
	}

	return result
}

func (uc *ExtractUseCase) runCascade(ctx context.Context, text string) domain.ExtractionResult {
	// Stages 1-3 need the model; a transport failure (or no configured
	// model) short-circuits to the pattern stages on the original text.
	if uc.llm != nil {
		raw, err := uc.llm.Complete(ctx, extractSystemPrompt, text)
		if err == nil {
			if name, ok := parseModelJSON(raw); ok {
				return domain.ExtractionResult{CandidateName: name, Source: domain.SourceAI}
			}
			if m := fieldPattern.FindStringSubmatch(raw); m != nil {
				return domain.ExtractionResult{CandidateName: m[1], Source: domain.SourceRegexField}
			}
			uc.logger.Debug("Model output not parseable, falling back", zap.String("raw", raw))
		} else {
			uc.logger.Warn("Model call failed, falling back to patterns", zap.Error(err))
		}
	}

	if m := brandPattern.FindStringSubmatch(text); m != nil {
		return domain.ExtractionResult{
			CandidateName: fmt.Sprintf("%s %s", m[1], m[2]),
			Source:        domain.SourceBrandPattern,
		}
	}

	for _, kw := range brandKeywords {
		if strings.Contains(text, kw) {
			return domain.ExtractionResult{CandidateName: kw, Source: domain.SourceKeyword}
		}
	}

	if tokens := strings.Fields(text); len(tokens) > 0 {
		return domain.ExtractionResult{CandidateName: tokens[0], Source: domain.SourceFirstToken}
	}

	return domain.ExtractionResult{Source: domain.SourceNone}
}

// parseModelJSON parses a conforming model response. A syntactically
// valid object with an empty or missing field counts as non-conforming
// so the cascade keeps going.
func parseModelJSON(raw string) (string, bool) {
	var payload struct {
		MartName string `json:"mart_name"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return "", false
	}
	if payload.MartName == "" {
		return "", false
	}
	return payload.MartName, true
}

func cacheKey(text string) string {
	return fmt.Sprintf("extract:%x", sha256.Sum256([]byte(text)))
}

func (uc *ExtractUseCase) fromCache(ctx context.Context, text string) *domain.ExtractionResult {
	if uc.cacheRepo == nil {
		return nil
	}

	data, err := uc.cacheRepo.Get(ctx, cacheKey(text))
	if err != nil || data == nil {
		return nil
	}

	var result domain.ExtractionResult
	if err := json.Unmarshal(data, &result); err != nil {
		uc.logger.Warn("Failed to unmarshal cached extraction", zap.Error(err))
		return nil
	}

	return &result
}

func (uc *ExtractUseCase) toCache(ctx context.Context, text string, result domain.ExtractionResult) {
	if uc.cacheRepo == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		return
	}

	// Cache errors are already logged by the repository; extraction
	// continues regardless.
	_ = uc.cacheRepo.Set(ctx, cacheKey(text), data, uc.cacheTTL)
}

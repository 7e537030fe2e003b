package dogmessage

import (
	"context"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pawcare/backend/internal/app/service/user"
	"github.com/pawcare/backend/internal/models"
	"github.com/pawcare/backend/internal/platform/llm"
	"github.com/pawcare/backend/pkg/logctx"
	"github.com/pawcare/backend/pkg/types"
)

const premiumPrompt = "あなたは犬のキャラクターです。プレミアム会員の子ども（8歳）に向けて、" +
	"犬といっしょにくらすときに知っておくとよい、ちょっとたいへんなことやおせわのじかんたい、" +
	"こうどうのいみなどのまめちしきを、30文字いないでやさしく教えてください。" +
	"ひらがなと小学2年生レベルの漢字をつかってください。" +
	"さいごは「〜わん」「〜だわん」「〜するわん」などの語尾をつけてください。"

// FixedMessages is what free users see, and what premium users fall back to.
var FixedMessages = []string{
	"おさんぽだいすきだよ！",
	"ごはんまだかな〜？",
	"だいすきだよ！",
	"しっぽふりふり！",
	"きょうもいっしょにあそぼうね！",
	"おなかすいたわん！",
	"さんぽにいきたいわん〜",
	"ありがとうわん！",
	"げんきいっぱいだわん！",
	"なでてくれてありがとうわん♪",
	"きょうはいいてんきだわん！",
	"おせわしてくれてうれしいわん！",
	"あそぼうわん！わん！",
	"だいすきだわん♡",
	"こんどはどこにいくわん？",
}

type Message struct {
	Message    string `json:"message"`
	IsLLMBased bool   `json:"is_llm_based"`
}

type Generator interface {
	// Generate returns user.ErrUserNotFound for an unknown account.
	Generate(ctx context.Context, firebaseUID string) (*Message, error)
}

type Service struct {
	db    *gorm.DB
	users user.Manager
	llm   llm.Generator
	log   *zap.SugaredLogger
}

func NewService(db *gorm.DB, users user.Manager, gen llm.Generator, log *zap.SugaredLogger) *Service {
	return &Service{db: db, users: users, llm: gen, log: log}
}

func (s *Service) Generate(ctx context.Context, firebaseUID string) (*Message, error) {
	u, err := s.users.GetByFirebaseUID(ctx, firebaseUID)
	if err != nil {
		return nil, err
	}
	log := logctx.FromCtx(ctx, s.log)

	msg := &Message{Message: lo.Sample(FixedMessages)}
	if u.CurrentPlan == types.PlanPremium {
		text, err := s.llm.Generate(ctx, premiumPrompt)
		if err != nil {
			log.Warnw("dog_message_llm_failed", "error", err)
		} else {
			msg = &Message{Message: text, IsLLMBased: true}
		}
	}

	entry := &models.MessageLog{UserID: u.ID, Content: msg.Message, IsLLMBased: msg.IsLLMBased}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		log.Warnw("dog_message_log_failed", "error", err)
	}
	return msg, nil
}

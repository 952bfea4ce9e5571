package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"bloodlink/config"
	"bloodlink/internal/domain/constants"
	"bloodlink/internal/domain/entity"
	domainerrors "bloodlink/internal/domain/errors"
	"bloodlink/internal/domain/repository"
	"bloodlink/internal/domain/service"
	"bloodlink/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const (
	greetingText       = "Hello! How can I help you today?"
	askBloodGroupText  = "🚨 I’m here to help. Please tell me the required blood group."
	askCityText        = "Got it. Please tell me your city or location."
	campsText          = "You can find donation camps near you. Redirecting to the camps page now, please check for upcoming donation events."
	eligibilityText    = "To be eligible to donate blood, you must be 18-65 years old, weigh at least 50kg, and be in good health. Redirecting to the dashboard now, please take the eligibility quiz to see if you are eligible to donate first."
	donationText       = "You can donate by finding a nearby camp or hospital on our platform. Redirecting to the dashboard now, please register as a donor if you haven't already."
	helloText          = "Hello! I'm here to help you with blood donation queries. Ask me about eligibility, how to donate, or emergency requests."
	fallbackText       = "I'm not sure I understand. Try asking about 'eligibility', 'donation process', or 'emergency' help."
	searchErrorText    = "Sorry, I encountered an error while searching. Please try again later."
	maxListedDonors    = 3
	anonymousDonorName = "Anonymous"
	missingPhone       = "N/A"
)

// intakeRule is one entry of the ordered keyword table used in the normal state. The first match wins.
type intakeRule struct {
	matches  func(lower string) bool
	next     entity.ConversationState
	reply    string
	navigate string
}

func containsAny(s string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}

	return false
}

//nolint:gochecknoglobals
var intakeRules = []intakeRule{
	{
		matches: func(s string) bool { return containsAny(s, "urgent", "emergency", "need blood", "map", "help") },
		next:    entity.ConversationAwaitingBloodGroup,
		reply:   askBloodGroupText,
	},
	{
		matches:  func(s string) bool { return strings.Contains(s, "where") && strings.Contains(s, "donate") },
		next:     entity.ConversationNormal,
		reply:    campsText,
		navigate: constants.PathCamps,
	},
	{
		matches:  func(s string) bool { return strings.Contains(s, "eligib") },
		next:     entity.ConversationNormal,
		reply:    eligibilityText,
		navigate: constants.PathDashboard,
	},
	{
		matches:  func(s string) bool { return strings.Contains(s, "donat") },
		next:     entity.ConversationNormal,
		reply:    donationText,
		navigate: constants.PathDashboard,
	},
	{
		matches: func(s string) bool { return containsAny(s, "hello", "hi") },
		next:    entity.ConversationNormal,
		reply:   helloText,
	},
}

// intakeTurn is what a user message resolves to. Either reply is fixed or search computes it later.
type intakeTurn struct {
	reply    string
	navigate string
	search   *donorSearch
}

type donorSearch struct {
	bloodGroup string
	city       string
}

// intakeService implements the IntakeUsecase interface.
type intakeService struct {
	sessions      service.SessionStore
	navigator     service.Navigator
	scheduler     service.DelayScheduler
	userRepo      repository.UserRepository
	replyDelay    time.Duration
	navigateDelay time.Duration
	sessionTTL    time.Duration
	logger        *slog.Logger
	now           func() time.Time
}

// IntakeServiceParams holds dependencies for IntakeService, injected by Fx.
type IntakeServiceParams struct {
	fx.In

	Sessions  service.SessionStore
	Navigator service.Navigator
	Scheduler service.DelayScheduler
	UserRepo  repository.UserRepository
	Config    *config.Config
	Logger    *slog.Logger
}

// NewIntakeService is the constructor for intakeService.
func NewIntakeService(params IntakeServiceParams) usecase.IntakeUsecase {
	return &intakeService{
		sessions:      params.Sessions,
		navigator:     params.Navigator,
		scheduler:     params.Scheduler,
		userRepo:      params.UserRepo,
		replyDelay:    params.Config.Intake.ReplyDelay,
		navigateDelay: params.Config.Intake.NavigateDelay,
		sessionTTL:    params.Config.Intake.SessionTTL,
		logger:        params.Logger,
		now:           time.Now,
	}
}

func (srv *intakeService) log(ctx context.Context) *slog.Logger {
	return loggerFrom(ctx, srv.logger)
}

// StartSession opens a chat session with the greeting message
func (srv *intakeService) StartSession(ctx context.Context) (*entity.Conversation, error) {
	now := srv.now()
	conv := &entity.Conversation{
		ID:        uuid.NewString(),
		State:     entity.ConversationNormal,
		CreatedAt: now,
	}
	conv.Append(entity.SenderBot, greetingText, now)
	srv.sessions.Create(conv)

	srv.log(ctx).Debug("Chat session started", slog.String("sessionID", conv.ID))

	return conv.Snapshot(), nil
}

// GetSession returns the current transcript and state
func (srv *intakeService) GetSession(_ context.Context, id string) (*entity.Conversation, error) {
	conv, ok := srv.sessions.Get(id)
	if !ok {
		return nil, domainerrors.ErrSessionNotFound.WithDetails(id)
	}

	return conv, nil
}

// SendMessage appends the user's message and applies the state change right away.
// The reply follows after the reply delay and any navigation after the navigate delay.
func (srv *intakeService) SendMessage(ctx context.Context, id, text string) (*entity.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("message is empty")
	}

	var (
		msg  entity.ChatMessage
		turn intakeTurn
	)
	err := srv.sessions.Update(id, func(conv *entity.Conversation) error {
		msg = conv.Append(entity.SenderUser, text, srv.now())
		var err error
		turn, err = advance(conv, text)

		return err
	})
	if err != nil {
		return nil, transitionError(err)
	}

	srv.sessions.Publish(id, service.SessionEvent{Type: service.SessionEventMessage, Message: &msg})

	replyCtx := context.WithoutCancel(ctx)
	srv.scheduler.AfterFunc(srv.replyDelay, func() {
		srv.reply(replyCtx, id, turn)
	})

	return &msg, nil
}

// advance applies the user's input to the conversation state and returns the pending reply.
func advance(conv *entity.Conversation, text string) (intakeTurn, error) {
	switch conv.State {
	case entity.ConversationAwaitingBloodGroup:
		conv.BloodGroup = strings.ToUpper(text)
		if err := conv.MoveTo(entity.ConversationAwaitingCity); err != nil {
			return intakeTurn{}, err
		}

		return intakeTurn{reply: askCityText}, nil

	case entity.ConversationAwaitingCity:
		search := &donorSearch{bloodGroup: conv.BloodGroup, city: entity.NormalizeCity(text)}
		if err := conv.MoveTo(entity.ConversationNormal); err != nil {
			return intakeTurn{}, err
		}
		conv.BloodGroup = ""
		conv.City = ""

		return intakeTurn{search: search, navigate: constants.PathSearch}, nil

	case entity.ConversationNormal:
		lower := strings.ToLower(text)
		for _, rule := range intakeRules {
			if !rule.matches(lower) {
				continue
			}
			if err := conv.MoveTo(rule.next); err != nil {
				return intakeTurn{}, err
			}

			return intakeTurn{reply: rule.reply, navigate: rule.navigate}, nil
		}

		return intakeTurn{reply: fallbackText}, nil
	}

	return intakeTurn{}, &entity.TransitionError{Kind: "conversation", From: string(conv.State), To: string(conv.State)}
}

func (srv *intakeService) reply(ctx context.Context, id string, turn intakeTurn) {
	text := turn.reply
	if turn.search != nil {
		text = srv.searchDonors(ctx, turn.search)
	}

	var msg entity.ChatMessage
	err := srv.sessions.Update(id, func(conv *entity.Conversation) error {
		msg = conv.Append(entity.SenderBot, text, srv.now())

		return nil
	})
	if err != nil {
		srv.log(ctx).Debug("Session ended before reply", slog.String("sessionID", id))

		return
	}
	srv.sessions.Publish(id, service.SessionEvent{Type: service.SessionEventMessage, Message: &msg})

	if turn.navigate == "" {
		return
	}
	path := turn.navigate
	srv.scheduler.AfterFunc(srv.navigateDelay, func() {
		srv.navigator.NavigateTo(id, path)
	})
}

// searchDonors runs the exact-match donor lookup and renders up to three results.
func (srv *intakeService) searchDonors(ctx context.Context, search *donorSearch) string {
	donors, err := srv.userRepo.FindEligibleDonors(ctx, search.bloodGroup, search.city)
	if err != nil {
		srv.log(ctx).Error("Donor search failed",
			slog.String("bloodGroup", search.bloodGroup),
			slog.String("city", search.city),
			slog.Any("error", err))

		return searchErrorText
	}

	if len(donors) == 0 {
		return fmt.Sprintf("I couldn't find any registered donors for %s in %s. Redirecting to the map now, please try expanding your search area or contacting nearby hospitals directly.",
			search.bloodGroup, search.city)
	}

	lines := make([]string, 0, maxListedDonors)
	for _, d := range donors[:min(len(donors), maxListedDonors)] {
		name := d.Name
		if name == "" {
			name = anonymousDonorName
		}
		phone := missingPhone
		if d.DonorProfile != nil && d.DonorProfile.Phone != "" {
			phone = d.DonorProfile.Phone
		}
		lines = append(lines, fmt.Sprintf("• %s (%s)", name, phone))
	}

	return fmt.Sprintf("Found %d match(es) in %s:\n%s\n\nRedirecting to the map now, please use the search filters to find and contact more donors.",
		len(donors), search.city, strings.Join(lines, "\n"))
}

// Subscribe streams message and navigate events of a session
func (srv *intakeService) Subscribe(_ context.Context, id string) (<-chan service.SessionEvent, func(), error) {
	events, cancel, ok := srv.sessions.Subscribe(id)
	if !ok {
		return nil, nil, domainerrors.ErrSessionNotFound.WithDetails(id)
	}

	return events, cancel, nil
}

// ExpireIdleSessions drops sessions idle for longer than the configured TTL
func (srv *intakeService) ExpireIdleSessions(ctx context.Context) int {
	expired := srv.sessions.ExpireIdle(srv.now().Add(-srv.sessionTTL))
	if expired > 0 {
		srv.log(ctx).Info("Expired idle chat sessions", slog.Int("count", expired))
	}

	return expired
}

package controller

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	appmodel "github.com/Rashidov21/queue-management-bot/internal/model"
	"github.com/Rashidov21/queue-management-bot/internal/repository"
	"github.com/Rashidov21/queue-management-bot/internal/repository/base"
	"github.com/Rashidov21/queue-management-bot/internal/service"
)

// BotController is the thin inbound command surface over the booking core.
// Commands take explicit arguments; there is no conversational state.
type BotController struct {
	bot             *bot.Bot
	userRepo        *repository.UserRepository
	providerRepo    *repository.ProviderRepository
	serviceRepo     *repository.ServiceRepository
	bookingService  *service.BookingService
	scheduleService *service.ScheduleService
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	userRepo *repository.UserRepository,
	providerRepo *repository.ProviderRepository,
	serviceRepo *repository.ServiceRepository,
	bookingService *service.BookingService,
	scheduleService *service.ScheduleService,
	logger *zap.Logger,
) *BotController {
	return &BotController{
		bot:             botInstance,
		userRepo:        userRepo,
		providerRepo:    providerRepo,
		serviceRepo:     serviceRepo,
		bookingService:  bookingService,
		scheduleService: scheduleService,
		logger:          logger,
	}
}

// RegisterHandlers wires the bot commands.
func (c *BotController) RegisterHandlers() {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/services", bot.MatchTypeExact, c.handleServices)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/addservice", bot.MatchTypePrefix, c.handleAddService)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/providers", bot.MatchTypeExact, c.handleProviders)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/register", bot.MatchTypePrefix, c.handleRegisterProvider)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/accepting", bot.MatchTypePrefix, c.handleAccepting)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/slots", bot.MatchTypePrefix, c.handleSlots)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/book", bot.MatchTypePrefix, c.handleBook)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mybookings", bot.MatchTypeExact, c.handleMyBookings)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypePrefix, c.handleCancel)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/confirm", bot.MatchTypePrefix, c.handleConfirm)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/complete", bot.MatchTypePrefix, c.handleComplete)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/noshow", bot.MatchTypePrefix, c.handleNoShow)
}

func (c *BotController) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	from := update.Message.From

	user, err := c.userRepo.GetByTelegramID(ctx, from.ID)
	if err != nil {
		c.logger.Error("Failed to look up user", zap.Error(err))
		c.reply(ctx, update, "Something went wrong, please try again.")
		return
	}

	if user == nil {
		user = &appmodel.User{
			TelegramID: from.ID,
			Username:   from.Username,
			FullName:   strings.TrimSpace(from.FirstName + " " + from.LastName),
		}
		if err := c.userRepo.Create(ctx, user); err != nil {
			c.logger.Error("Failed to register user", zap.Error(err))
			c.reply(ctx, update, "Something went wrong, please try again.")
			return
		}
	}

	c.reply(ctx, update, fmt.Sprintf("Welcome, %s! Use /help to see what I can do.", user.FullName))
}

func (c *BotController) handleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	c.reply(ctx, update, strings.Join([]string{
		"/providers - list providers taking bookings",
		"/slots <provider_id> <YYYY-MM-DD> - list free slots",
		"/book <provider_id> <YYYY-MM-DD> <HH:MM> [notes] - book a slot",
		"/mybookings - list your bookings",
		"/cancel <booking_id> - cancel a booking",
		"/confirm <booking_id> - approve a pending booking (providers)",
		"/complete <booking_id> - mark a booking completed (providers)",
		"/noshow <booking_id> - mark a no-show (providers)",
		"/services - list service types",
		"/addservice <duration_minutes> <name> - define a service type",
		"/register <service_id> <days> <HH:MM> <HH:MM> [location] - become a provider, e.g. /register 1 mon,wed,fri 09:00 17:00",
		"/accepting <provider_id> <on|off> - pause or resume new bookings (providers)",
	}, "\n"))
}

func (c *BotController) handleServices(ctx context.Context, b *bot.Bot, update *models.Update) {
	services, err := c.serviceRepo.GetAllActive(ctx)
	if err != nil {
		c.logger.Error("Failed to list services", zap.Error(err))
		c.reply(ctx, update, "Something went wrong, please try again.")
		return
	}

	if len(services) == 0 {
		c.reply(ctx, update, "No services defined yet. Add one with /addservice.")
		return
	}

	lines := make([]string, 0, len(services))
	for _, s := range services {
		lines = append(lines, fmt.Sprintf("#%d %s (%d min)", s.ID, s.Name, s.DurationMinutes))
	}
	c.reply(ctx, update, strings.Join(lines, "\n"))
}

func (c *BotController) handleAddService(ctx context.Context, b *bot.Bot, update *models.Update) {
	args := commandArgs(update.Message.Text)
	if len(args) < 2 {
		c.reply(ctx, update, "Usage: /addservice <duration_minutes> <name>")
		return
	}

	if _, ok := c.requireUser(ctx, update); !ok {
		return
	}

	duration, err := strconv.Atoi(args[0])
	if err != nil || duration <= 0 {
		c.reply(ctx, update, "Duration must be a positive number of minutes.")
		return
	}

	svc := &appmodel.Service{
		Name:            strings.Join(args[1:], " "),
		DurationMinutes: duration,
		IsActive:        true,
	}
	if err := c.serviceRepo.Create(ctx, svc); err != nil {
		c.logger.Error("Failed to create service", zap.Error(err))
		c.reply(ctx, update, "Something went wrong, please try again.")
		return
	}

	c.reply(ctx, update, fmt.Sprintf("Service #%d %q created. Providers can /register %d.", svc.ID, svc.Name, svc.ID))
}

func (c *BotController) handleProviders(ctx context.Context, b *bot.Bot, update *models.Update) {
	providers, err := c.providerRepo.GetAllAccepting(ctx)
	if err != nil {
		c.logger.Error("Failed to list providers", zap.Error(err))
		c.reply(ctx, update, "Something went wrong, please try again.")
		return
	}

	if len(providers) == 0 {
		c.reply(ctx, update, "No providers are taking bookings right now.")
		return
	}

	lines := make([]string, 0, len(providers))
	for _, p := range providers {
		lines = append(lines, fmt.Sprintf("#%d %s - %s (%d min), %s-%s",
			p.ID, p.User.FullName, p.Service.Name, p.Service.DurationMinutes, p.StartTime, p.EndTime))
	}
	c.reply(ctx, update, strings.Join(lines, "\n"))
}

func (c *BotController) handleRegisterProvider(ctx context.Context, b *bot.Bot, update *models.Update) {
	args := commandArgs(update.Message.Text)
	if len(args) < 4 {
		c.reply(ctx, update, "Usage: /register <service_id> <days> <HH:MM> <HH:MM> [location]")
		return
	}

	user, ok := c.requireUser(ctx, update)
	if !ok {
		return
	}

	serviceID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		c.reply(ctx, update, "Service id must be a number.")
		return
	}

	days, err := parseWeekdays(args[1])
	if err != nil {
		c.reply(ctx, update, "Days must look like mon,wed,fri.")
		return
	}

	start, err := appmodel.ParseTimeOfDay(args[2])
	if err != nil {
		c.reply(ctx, update, "Start time must look like 09:00.")
		return
	}

	end, err := appmodel.ParseTimeOfDay(args[3])
	if err != nil {
		c.reply(ctx, update, "End time must look like 17:00.")
		return
	}

	if start >= end {
		c.reply(ctx, update, "Start time must be before end time.")
		return
	}

	provider := &appmodel.Provider{
		UserID:      user.ID,
		ServiceID:   serviceID,
		WorkingDays: days,
		StartTime:   start,
		EndTime:     end,
		Location:    strings.Join(args[4:], " "),
		IsAccepting: true,
	}
	if err := c.providerRepo.Create(ctx, provider); err != nil {
		if base.IsUniqueViolation(err) {
			c.reply(ctx, update, "You already have a provider profile.")
			return
		}
		c.logger.Error("Failed to register provider", zap.Error(err))
		c.reply(ctx, update, "Something went wrong, please try again.")
		return
	}

	if err := c.userRepo.SetIsProvider(ctx, user.ID, true); err != nil {
		c.logger.Error("Failed to flag user as provider", zap.Error(err), zap.Int64("user_id", user.ID))
	}

	c.reply(ctx, update, fmt.Sprintf("You are now provider #%d. Clients can book you with /slots %d <date>.", provider.ID, provider.ID))
}

func (c *BotController) handleAccepting(ctx context.Context, b *bot.Bot, update *models.Update) {
	args := commandArgs(update.Message.Text)
	if len(args) != 2 || (args[1] != "on" && args[1] != "off") {
		c.reply(ctx, update, "Usage: /accepting <provider_id> <on|off>")
		return
	}

	providerID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		c.reply(ctx, update, "Provider id must be a number.")
		return
	}

	user, ok := c.requireUser(ctx, update)
	if !ok {
		return
	}

	provider, err := c.providerRepo.GetByID(ctx, providerID)
	if err != nil {
		c.logger.Error("Failed to look up provider", zap.Error(err))
		c.reply(ctx, update, "Something went wrong, please try again.")
		return
	}
	if provider == nil {
		c.reply(ctx, update, "Provider not found.")
		return
	}
	if provider.UserID != user.ID {
		c.reply(ctx, update, "You can only manage your own provider profile.")
		return
	}

	accepting := args[1] == "on"
	if err := c.providerRepo.SetAccepting(ctx, providerID, accepting); err != nil {
		c.logger.Error("Failed to toggle provider", zap.Error(err))
		c.reply(ctx, update, "Something went wrong, please try again.")
		return
	}

	if accepting {
		c.reply(ctx, update, "You are now taking new bookings.")
	} else {
		c.reply(ctx, update, "New bookings are paused.")
	}
}

func (c *BotController) handleSlots(ctx context.Context, b *bot.Bot, update *models.Update) {
	args := commandArgs(update.Message.Text)
	if len(args) != 2 {
		c.reply(ctx, update, "Usage: /slots <provider_id> <YYYY-MM-DD>")
		return
	}

	providerID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		c.reply(ctx, update, "Provider id must be a number.")
		return
	}

	date, err := time.ParseInLocation("2006-01-02", args[1], time.Local)
	if err != nil {
		c.reply(ctx, update, "Date must look like 2026-08-28.")
		return
	}

	slots, err := c.scheduleService.AvailableSlots(ctx, providerID, date)
	if err != nil {
		if errors.Is(err, service.ErrProviderNotFound) {
			c.reply(ctx, update, "Provider not found.")
			return
		}
		c.logger.Error("Failed to list slots", zap.Error(err))
		c.reply(ctx, update, "Something went wrong, please try again.")
		return
	}

	if len(slots) == 0 {
		c.reply(ctx, update, "No free slots on that date.")
		return
	}

	lines := make([]string, 0, len(slots))
	for _, t := range slots {
		lines = append(lines, t.String())
	}
	c.reply(ctx, update, "Free slots:\n"+strings.Join(lines, "\n"))
}

func (c *BotController) handleBook(ctx context.Context, b *bot.Bot, update *models.Update) {
	args := commandArgs(update.Message.Text)
	if len(args) < 3 {
		c.reply(ctx, update, "Usage: /book <provider_id> <YYYY-MM-DD> <HH:MM> [notes]")
		return
	}

	user, ok := c.requireUser(ctx, update)
	if !ok {
		return
	}

	providerID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		c.reply(ctx, update, "Provider id must be a number.")
		return
	}

	date, err := time.ParseInLocation("2006-01-02", args[1], time.Local)
	if err != nil {
		c.reply(ctx, update, "Date must look like 2026-08-28.")
		return
	}

	slot, err := appmodel.ParseTimeOfDay(args[2])
	if err != nil {
		c.reply(ctx, update, "Time must look like 09:30.")
		return
	}

	booking, err := c.bookingService.CreateBooking(ctx, service.CreateBookingRequest{
		ClientID:   user.ID,
		ProviderID: providerID,
		Date:       date,
		Time:       slot,
		Notes:      strings.Join(args[3:], " "),
	})
	if err != nil {
		c.reply(ctx, update, bookingErrorMessage(err))
		return
	}

	c.reply(ctx, update, fmt.Sprintf("Booked! Your booking #%d is %s for %s at %s.",
		booking.ID, booking.Status, booking.Date.Format("2006-01-02"), booking.Time))
}

func (c *BotController) handleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := c.requireUser(ctx, update)
	if !ok {
		return
	}

	bookings, err := c.bookingService.GetClientBookings(ctx, user.ID)
	if err != nil {
		c.logger.Error("Failed to list bookings", zap.Error(err))
		c.reply(ctx, update, "Something went wrong, please try again.")
		return
	}

	if len(bookings) == 0 {
		c.reply(ctx, update, "You have no bookings yet.")
		return
	}

	lines := make([]string, 0, len(bookings))
	for _, booking := range bookings {
		lines = append(lines, fmt.Sprintf("#%d %s %s - %s",
			booking.ID, booking.Date.Format("2006-01-02"), booking.Time, booking.Status))
	}
	c.reply(ctx, update, strings.Join(lines, "\n"))
}

func (c *BotController) handleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	c.handleBookingAction(ctx, update, "cancel", c.bookingService.CancelBooking, "Booking cancelled.")
}

func (c *BotController) handleConfirm(ctx context.Context, b *bot.Bot, update *models.Update) {
	c.handleBookingAction(ctx, update, "confirm", c.bookingService.ConfirmBooking, "Booking confirmed.")
}

func (c *BotController) handleComplete(ctx context.Context, b *bot.Bot, update *models.Update) {
	c.handleBookingAction(ctx, update, "complete", c.bookingService.CompleteBooking, "Booking completed.")
}

func (c *BotController) handleNoShow(ctx context.Context, b *bot.Bot, update *models.Update) {
	c.handleBookingAction(ctx, update, "noshow", c.bookingService.MarkNoShow, "Booking marked as no-show.")
}

func (c *BotController) handleBookingAction(
	ctx context.Context,
	update *models.Update,
	name string,
	action func(ctx context.Context, bookingID, actorUserID int64) error,
	success string,
) {
	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		c.reply(ctx, update, fmt.Sprintf("Usage: /%s <booking_id>", name))
		return
	}

	bookingID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		c.reply(ctx, update, "Booking id must be a number.")
		return
	}

	user, ok := c.requireUser(ctx, update)
	if !ok {
		return
	}

	if err := action(ctx, bookingID, user.ID); err != nil {
		c.reply(ctx, update, bookingErrorMessage(err))
		return
	}

	c.reply(ctx, update, success)
}

func (c *BotController) requireUser(ctx context.Context, update *models.Update) (*appmodel.User, bool) {
	user, err := c.userRepo.GetByTelegramID(ctx, update.Message.From.ID)
	if err != nil {
		c.logger.Error("Failed to look up user", zap.Error(err))
		c.reply(ctx, update, "Something went wrong, please try again.")
		return nil, false
	}
	if user == nil {
		c.reply(ctx, update, "Please run /start first.")
		return nil, false
	}
	return user, true
}

func (c *BotController) reply(ctx context.Context, update *models.Update, text string) {
	_, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   text,
	})
	if err != nil {
		c.logger.Warn("Failed to send reply", zap.Error(err))
	}
}

// bookingErrorMessage maps the validation taxonomy to user-facing text.
// Unknown errors get a generic message and are not detailed to the user.
func bookingErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrProviderNotAccepting):
		return "This provider is not accepting new bookings right now."
	case errors.Is(err, service.ErrPastBooking):
		return "That time is already in the past."
	case errors.Is(err, service.ErrClientIsProvider):
		return "Provider accounts cannot book services."
	case errors.Is(err, service.ErrSlotTaken):
		return "Sorry, that slot has just been taken. Pick another one."
	case errors.Is(err, service.ErrNotCancellable):
		return "This booking can no longer be cancelled."
	case errors.Is(err, service.ErrPermissionDenied):
		return "You cannot modify this booking."
	case errors.Is(err, service.ErrInvalidTransition):
		return "This booking is not in the right state for that."
	case errors.Is(err, service.ErrProviderNotFound):
		return "Provider not found."
	case errors.Is(err, service.ErrBookingNotFound):
		return "Booking not found."
	case errors.Is(err, service.ErrClientNotFound):
		return "Please run /start first."
	}
	return "Something went wrong, please try again."
}

// parseWeekdays accepts comma-separated day names, full ("monday") or
// three-letter ("mon").
func parseWeekdays(s string) ([]appmodel.Weekday, error) {
	all := []appmodel.Weekday{
		appmodel.Monday, appmodel.Tuesday, appmodel.Wednesday, appmodel.Thursday,
		appmodel.Friday, appmodel.Saturday, appmodel.Sunday,
	}

	var days []appmodel.Weekday
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if len(part) < 3 {
			return nil, fmt.Errorf("unknown day %q", part)
		}
		matched := false
		for _, day := range all {
			if string(day) == part || (len(part) == 3 && strings.HasPrefix(string(day), part)) {
				days = append(days, day)
				matched = true
				break
			}
		}
		if !matched {
			return nil, fmt.Errorf("unknown day %q", part)
		}
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("no days given")
	}
	return days, nil
}

func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) <= 1 {
		return nil
	}
	return fields[1:]
}

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/warden/pkg/logging"
	"github.com/Jacobbrewer1/warden/pkg/request"
	"github.com/gorilla/mux"
)

// commandController resolves an interaction to the processor that handles it.
type commandController func(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error)

// commandProcessor processes a single interaction.
type commandProcessor func(a IApp, i *discordgo.InteractionCreate) error

// authOption is an option for the auth middleware. It indicates the type of authentication required.
type authOption int

const (
	// authOptionNone indicates that no authentication is required.
	authOptionNone authOption = iota
)

type Controller func(w http.ResponseWriter, r *http.Request)

func middlewareHttp(handler Controller, authRequired authOption, a IApp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		cw := request.NewClientWriter(w)

		// Recover from any panics that occur in the handler.
		defer func() {
			if rec := recover(); rec != nil {
				a.Log().Error("Panic in handler",
					slog.String(logging.KeyError, fmt.Sprintf("%v", rec)),
					slog.String("stack", string(debug.Stack())),
				)
				cw.WriteHeader(http.StatusInternalServerError)
				if err := json.NewEncoder(cw).Encode(request.NewMessage(request.ErrInternalServer.Error())); err != nil {
					a.Log().Error("Error encoding response", slog.String(logging.KeyError, err.Error()))
				}
			}
		}()

		var path string
		route := mux.CurrentRoute(r)
		if route != nil { // The route may be nil if the request is not routed.
			var err error
			path, err = route.GetPathTemplate()
			if err != nil {
				// An error here is only returned if the route does not define a path.
				a.Log().Error("Error getting path template", slog.String(logging.KeyError, err.Error()))
				path = r.URL.Path // If the route does not define a path, use the URL path.
			}
		} else {
			path = r.URL.Path // If the route is nil, use the URL path.
		}

		defer func() {
			// Run the deferred function after the request has been handled, as the status code will not be available until then.
			monitoring.HttpTotalRequests.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Inc()
			monitoring.HttpRequestDuration.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Observe(time.Since(now).Seconds())
		}()

		handler(cw, r)
	}
}

// interactionHandler routes slash commands to their controllers and message
// component presses to their processors.
func interactionHandler(a IApp, controllers map[string]commandController, buttons map[string]commandProcessor) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			slashCommandHandler(a, controllers, i)
		case discordgo.InteractionMessageComponent:
			buttonHandler(a, buttons, i)
		default:
			// Other interaction types (autocomplete, modals) are not used.
		}
	}
}

func slashCommandHandler(a IApp, controllers map[string]commandController, i *discordgo.InteractionCreate) {
	cmd := i.ApplicationCommandData().Name
	a.Log().Debug("Handling interaction " + cmd)

	controller, ok := controllers[cmd]
	if !ok {
		a.Log().Error("No controller found for command", slog.String("command", cmd))

		if err := respondSlashError(a, i); err != nil {
			a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
		}
		return
	}

	processor, err := controller(a, i)
	if err != nil {
		a.Log().Error(fmt.Sprintf("Error getting processor for command %s", cmd),
			slog.String(logging.KeyError, err.Error()))

		if err := respondSlashEphemeral(a, i, userErrorMessage(err)); err != nil {
			a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
		}
		return
	}

	t := time.Now().UTC()
	defer func() {
		monitoring.DiscordCommandDuration.WithLabelValues(cmd).Observe(time.Since(t).Seconds())
	}()

	if err := processor(a, i); err != nil {
		a.Log().Error(fmt.Sprintf("Error processing command %s", cmd),
			slog.String(logging.KeyError, err.Error()))

		if err := respondSlashEphemeral(a, i, userErrorMessage(err)); err != nil {
			a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
		}
	}
}

func buttonHandler(a IApp, buttons map[string]commandProcessor, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	a.Log().Debug("Handling button press " + customID)

	label := customID
	processor, ok := buttons[customID]
	if !ok && strings.HasPrefix(customID, TicketSetupButtonPrefix) {
		// Panel setup buttons carry the panel ID in the custom ID.
		label = TicketSetupButtonPrefix
		processor, ok = buttons[TicketSetupButtonPrefix]
	}
	if !ok {
		a.Log().Error("No processor found for button", slog.String("custom_id", customID))

		if err := respondSlashError(a, i); err != nil {
			a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
		}
		return
	}

	t := time.Now().UTC()
	defer func() {
		monitoring.DiscordCommandDuration.WithLabelValues(label).Observe(time.Since(t).Seconds())
	}()

	if err := processor(a, i); err != nil {
		a.Log().Error(fmt.Sprintf("Error processing button %s", customID),
			slog.String(logging.KeyError, err.Error()))

		if err := respondSlashEphemeral(a, i, userErrorMessage(err)); err != nil {
			a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
		}
	}
}

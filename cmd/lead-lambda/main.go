package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/todalabs/toda-leads/internal/airtable"
	appconfig "github.com/todalabs/toda-leads/internal/config"
	"github.com/todalabs/toda-leads/internal/leads"
	"github.com/todalabs/toda-leads/internal/notify"
	"github.com/todalabs/toda-leads/pkg/logging"
)

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	baseID, tableName := cfg.SplitBaseID()
	store := airtable.New(airtable.Config{
		BaseID:    baseID,
		TableName: tableName,
		APIKey:    cfg.AirtableAPIKey,
	}, logger)

	var notifier leads.Notifier
	if sender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sender != nil {
		if svc := notify.NewService(sender, cfg.NotifyEmail, logger); svc != nil {
			notifier = svc
		}
	}

	handler := leads.NewHandler(leads.HandlerConfig{
		Store:           store,
		Notifier:        notifier,
		Logger:          logger,
		AllowForceError: cfg.AllowForceError,
	})

	lambda.Start(func(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		return handle(ctx, handler, evt)
	})
}

func handle(ctx context.Context, handler *leads.Handler, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	method := strings.ToUpper(strings.TrimSpace(evt.RequestContext.HTTP.Method))

	// A body that fails base64 decoding takes the malformed-JSON path, so
	// the diagnostic and method gates still run first.
	body, err := decodeBody(evt)
	if err != nil {
		body = nil
	}

	status, resp := handler.Handle(ctx, leads.Request{
		Method:     method,
		ForceError: headerValue(evt.Headers, leads.ForceErrorHeader) == "1",
		Body:       body,
	})

	return jsonResponse(status, resp), nil
}

func decodeBody(evt events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if !evt.IsBase64Encoded {
		return []byte(evt.Body), nil
	}
	decoded, err := base64.StdEncoding.DecodeString(evt.Body)
	if err != nil {
		return nil, err
	}
	return decoded, nil
}

func headerValue(headers map[string]string, key string) string {
	for k, v := range headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

func jsonResponse(status int, resp leads.Response) events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(resp)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    map[string]string{"content-type": "application/json"},
		Body:       string(body),
	}
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"parttracker/internal/misc"
)

const pushbulletPushURL = "https://api.pushbullet.com/v2/pushes"

var ErrPushbullet = errors.New("Pushbullet error")
var ErrPushbulletNoKey = errors.New("no Pushbullet API key configured")

type pushbulletPushRequest struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// PushbulletSendNote pushes a note through the Pushbullet API. The key is
// passed per call since it lives in the notification settings document, not
// in the process configuration. Failures are soft: callers log and move on.
func (c Client) PushbulletSendNote(ctx context.Context, apiKey string, title string, body string) error {
	if apiKey == "" {
		return ErrPushbulletNoKey
	}

	reqBody, err := json.Marshal(pushbulletPushRequest{Type: "note", Title: title, Body: body})
	if err != nil {
		return errors.Wrapf(err, "PushbulletSendNote: error marshalling push request, title: %#v", title)
	}

	req, err := newRequest(ctx, http.MethodPost, pushbulletPushURL, bytes.NewReader(reqBody))
	if err != nil {
		return errors.Wrapf(err, "PushbulletSendNote: error creating HTTP request from body: %s", reqBody)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Access-Token", apiKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return errors.Wrapf(ErrPushbullet, "error doing request: %+v, err: %v", req, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.Logger.Errorf("PushbulletSendNote: Error closing response body, req: %+v, err: %v", req, err)
		}
	}()

	respBody, err := io.ReadAll(http.MaxBytesReader(nil, resp.Body, 300000))
	if err != nil {
		return errors.Wrapf(ErrPushbullet, "error reading PushbulletAPI response body, status: %s, err: %v",
			resp.Status, err)
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Wrapf(ErrPushbullet, "unexpected status from PushbulletAPI: %s, body:\n%s",
			resp.Status, misc.BytesLimit(respBody, 500))
	}
	return nil
}

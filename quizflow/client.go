package quizflow

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client talks to the Learnity quiz endpoints and implements Backend.
// Every non-success response is reported uniformly as a failure; the
// session does not distinguish validation rejections from transport
// errors.
type Client struct {
	http *resty.Client
}

// NewClient builds a client for the given API base URL. The bearer token
// is the student's JWT.
func NewClient(baseURL, token string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetHeader("Content-Type", "application/json")
	if token != "" {
		c.SetAuthToken(token)
	}
	return &Client{http: c}
}

// envelope matches the server's uniform {status, message, data} body
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) get(path string, out interface{}) error {
	resp, err := c.http.R().Get(path)
	return decode(resp, err, out)
}

func (c *Client) post(path string, body, out interface{}) error {
	resp, err := c.http.R().SetBody(body).Post(path)
	return decode(resp, err, out)
}

func decode(resp *resty.Response, err error, out interface{}) error {
	if err != nil {
		return err
	}
	var env envelope
	if uerr := json.Unmarshal(resp.Body(), &env); uerr != nil {
		return fmt.Errorf("malformed response (%s)", resp.Status())
	}
	if !resp.IsSuccess() || !env.Status {
		msg := env.Message
		if msg == "" {
			msg = resp.Status()
		}
		return fmt.Errorf("%s", msg)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

// LoadQuiz implements Backend
func (c *Client) LoadQuiz(quizID string) (*Quiz, error) {
	var quiz Quiz
	if err := c.get("/quiz/"+quizID, &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

// SubmitAttempt implements Backend
func (c *Client) SubmitAttempt(quizID string, answers []AnswerPayload, elapsedSeconds int) (*SubmissionResult, error) {
	body := map[string]interface{}{
		"answers":         answers,
		"elapsed_seconds": elapsedSeconds,
	}
	var result SubmissionResult
	if err := c.post("/quiz/"+quizID+"/submit", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FetchAttempts implements Backend
func (c *Client) FetchAttempts(quizID string) ([]AttemptSummary, error) {
	var payload struct {
		Attempts []AttemptSummary `json:"attempts"`
	}
	if err := c.get("/quiz/"+quizID+"/attempts", &payload); err != nil {
		return nil, err
	}
	return payload.Attempts, nil
}

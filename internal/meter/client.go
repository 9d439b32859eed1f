// Package meter talks to the local smart-meter relay: a Tasmota-style device
// that exposes its SML sensor readout over plain HTTP on the LAN.
package meter

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/BuddyApator/Energie-Buddy/internal/errors"
	"github.com/BuddyApator/Energie-Buddy/pkg/models"
)

const defaultPollTimeout = 2 * time.Second

// Client polls one relay device for the current cumulative meter value.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultPollTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// statusResponse mirrors the relay's `Status 8` JSON. All leaf fields are
// optional on the wire; a missing total means the poll failed, not a crash.
type statusResponse struct {
	StatusSNS struct {
		SML struct {
			TotalIn   *float64 `json:"Total_in"`
			PowerCurr *float64 `json:"Power_curr"`
		} `json:"SML"`
	} `json:"StatusSNS"`
}

// Read polls the relay at the given address and returns the current sample.
// Transport failures, bad payloads, and payloads without the cumulative total
// all come back as the device being unreachable.
func (c *Client) Read(address string) (*models.MeterSample, error) {
	if address == "" {
		return nil, apperrors.NewDeviceNotFound("no device address configured")
	}

	url := fmt.Sprintf("http://%s/cm?cmnd=Status%%208", address)
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, apperrors.NewDeviceUnreachable(err, "polling meter relay")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewDeviceUnreachable(
			fmt.Errorf("unexpected status %d", resp.StatusCode), "polling meter relay")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewDeviceUnreachable(err, "reading relay response")
	}

	var status statusResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, apperrors.NewDeviceUnreachable(err, "parsing relay response")
	}

	sml := status.StatusSNS.SML
	if sml.TotalIn == nil {
		return nil, apperrors.NewDeviceUnreachable(
			fmt.Errorf("response missing StatusSNS.SML.Total_in"), "parsing relay response")
	}

	sample := &models.MeterSample{
		TotalKWh: *sml.TotalIn,
		PolledAt: time.Now().UTC(),
	}
	if sml.PowerCurr != nil {
		sample.PowerWatt = *sml.PowerCurr
	}

	return sample, nil
}

// Run-summary notification over MQTT
package main

import (
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	MQTT "github.com/eclipse/paho.mqtt.golang"
)

// RunSummary is the JSON payload published after a successful run
type RunSummary struct {
	RunID       string  `json:"run_id"`
	Generated   string  `json:"generated"`
	Start       string  `json:"start"`
	Batches     int     `json:"batches"`
	Status      int     `json:"status_rows"`
	RGA         int     `json:"rga_rows"`
	Turbo       int     `json:"turbo_rows"`
	Temperature int     `json:"temperature_rows"`
	Velocity    int     `json:"velocity_rows"`
	Dropped     int     `json:"dropped_lines"`
	MissingFrac float64 `json:"missing_frac"`
	Page        string  `json:"page"`
}

// NotifyRun publishes the run summary with a one-shot connect, publish,
// disconnect.  Notification failures are logged, never fatal; the page
// is already published by the time this runs.
func NotifyRun(cfg *ServiceConfig, summary RunSummary) {

	if cfg.MQTTBroker == "" {
		return
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		log.Warn("notify: can't marshal summary", "err", err)
		return
	}

	mqttOpts := MQTT.NewClientOptions()
	mqttOpts.AddBroker(cfg.MQTTBroker)
	mqttOpts.SetClientID("gems-report-" + summary.RunID)
	mqttOpts.SetConnectTimeout(10 * time.Second)
	mqttOpts.SetAutoReconnect(false)
	mqttOpts.SetCleanSession(true)

	client := MQTT.NewClient(mqttOpts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Warn("notify: can't connect", "broker", cfg.MQTTBroker, "err", token.Error())
		return
	}
	defer client.Disconnect(250)

	// Retained, so late subscribers see the latest run
	if token := client.Publish(cfg.MQTTTopic, 1, true, payload); token.Wait() && token.Error() != nil {
		log.Warn("notify: publish failed", "topic", cfg.MQTTTopic, "err", token.Error())
		return
	}

	log.Info("published run summary", "topic", cfg.MQTTTopic)
}

package server

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"parttracker/internal/model"
)

// refreshItemDelay spaces out fetches so a batch does not hammer retailers.
const refreshItemDelay = 300 * time.Millisecond

// RefreshAll scrapes every registration whose retailer is active, appends a
// price observation per success, and sends at most one notification per item.
// Per-item failures become error entries in the outcome list; only a store
// failure while loading the batch inputs aborts the whole refresh. Outcomes
// preserve registration order.
func (s Server) RefreshAll(ctx context.Context) ([]model.RefreshOutcome, error) {
	s.Logger.Info("RefreshAll: Starting refresh of all tracked product URLs")

	retailers, err := s.DB.RetailersFindActive(ctx)
	if err != nil {
		s.Logger.Errorf("RefreshAll: Error getting active Retailers from DB, err: %v", err)
		return nil, err
	}
	retailersByID := make(map[primitive.ObjectID]model.Retailer, len(retailers))
	for _, r := range retailers {
		retailersByID[r.ID] = r
	}

	pus, err := s.DB.ProductURLsFindAll(ctx)
	if err != nil {
		s.Logger.Errorf("RefreshAll: Error getting ProductURLs from DB, err: %v", err)
		return nil, err
	}
	s.Logger.Infof("RefreshAll: Retrieved %d ProductURL(s) from DB", len(pus))

	// Settings are read once per invocation rather than per item.
	settings, err := s.DB.SettingsFind(ctx)
	if err != nil {
		s.Logger.Errorf("RefreshAll: Error getting NotificationSettings from DB, err: %v", err)
		return nil, err
	}

	outcomes := make([]model.RefreshOutcome, 0, len(pus))
	for _, pu := range pus {
		r, ok := retailersByID[pu.RetailerID]
		if !ok {
			s.Logger.Debugf("RefreshAll: Skipping OEM: %s, RetailerID: %s (retailer inactive or deleted)",
				pu.OEM, pu.RetailerID.Hex())
			continue
		}
		time.Sleep(refreshItemDelay)
		outcomes = append(outcomes, s.refreshOne(ctx, pu, r, settings))
	}

	s.Logger.Infof("RefreshAll: Finished refreshing %d item(s)", len(outcomes))
	return outcomes, nil
}

func (s Server) refreshOne(
	ctx context.Context, pu model.ProductURL, r model.Retailer, settings model.NotificationSettings,
) model.RefreshOutcome {
	s.Logger.Infof("refreshOne: Scraping OEM: %s at Retailer: %s, url: %s", pu.OEM, r.Name, pu.URL)
	res, err := s.Scraper.Scrape(ctx, pu.URL, r)
	if err != nil {
		s.Logger.Warnf("refreshOne: Scrape failed for OEM: %s at Retailer: %s, err: %v", pu.OEM, r.Name, err)
		return model.RefreshOutcome{OEM: pu.OEM, Retailer: r.Name, Error: err.Error()}
	}

	po := model.PriceObservation{
		OEM:        pu.OEM,
		RetailerID: pu.RetailerID,
		Currency:   res.Currency,
		PriceCAD:   res.PriceCAD,
		Timestamp:  primitive.NewDateTimeFromTime(res.Timestamp),
	}
	if res.PriceRaw != "" {
		raw := res.PriceRaw
		po.PriceRaw = &raw
	}
	if err = s.DB.ObservationInsert(ctx, po); err != nil {
		s.Logger.Errorf("refreshOne: Error inserting PriceObservation for OEM: %s at Retailer: %s, err: %v",
			pu.OEM, r.Name, err)
		return model.RefreshOutcome{OEM: pu.OEM, Retailer: r.Name, Error: err.Error()}
	}

	reason, triggered := s.computeTrigger(ctx, pu, po)
	if triggered && shouldSendNotification(settings) {
		title := fmt.Sprintf("Price alert: %s", pu.OEM)
		body := fmt.Sprintf("%s at %s: $%.2f CAD. %s. %s", pu.OEM, r.Name, *po.PriceCAD, reason, pu.URL)
		s.Logger.Infof("refreshOne: Sending notification for OEM: %s at Retailer: %s, reason: %s",
			pu.OEM, r.Name, reason)
		if err = s.Client.PushbulletSendNote(ctx, settings.PushbulletAPIKey, title, body); err != nil {
			// Delivery failure never affects the item outcome.
			s.Logger.Errorf("refreshOne: Error sending Pushbullet note for OEM: %s, err: %v", pu.OEM, err)
		}
	}

	return model.RefreshOutcome{OEM: pu.OEM, Retailer: r.Name, PriceCAD: po.PriceCAD}
}

// computeTrigger evaluates the drop condition first, then threshold rules.
// A matching threshold rule unconditionally overwrites the drop reason;
// this last-write-wins precedence is kept for compatibility with the
// historical behavior.
func (s Server) computeTrigger(
	ctx context.Context, pu model.ProductURL, po model.PriceObservation,
) (reason string, triggered bool) {
	recent, err := s.DB.ObservationsFindRecent(ctx, pu.OEM, pu.RetailerID, 2)
	if err != nil {
		s.Logger.Errorf("computeTrigger: Error getting recent PriceObservations for OEM: %s, err: %v", pu.OEM, err)
	} else {
		var previous *float64
		if len(recent) > 1 {
			previous = recent[1].PriceCAD
		}
		reason, triggered = dropReason(previous, po.PriceCAD)
	}

	rules, err := s.DB.RulesFindEnabledByOEM(ctx, pu.OEM)
	if err != nil {
		s.Logger.Errorf("computeTrigger: Error getting ThresholdRules for OEM: %s, err: %v", pu.OEM, err)
		return reason, triggered
	}
	if thresholdTriggered, ok := thresholdReason(rules, po.PriceCAD); ok {
		return thresholdTriggered, true
	}
	return reason, triggered
}

// dropReason fires when both prices are known and the new one is strictly
// lower than the previous one.
func dropReason(previous *float64, current *float64) (string, bool) {
	if previous == nil || current == nil || *current >= *previous {
		return "", false
	}
	return fmt.Sprintf("Price dropped from $%.2f to $%.2f CAD", *previous, *current), true
}

// thresholdReason fires when the current price is at or below an enabled
// rule's threshold. The last matching rule provides the reason.
func thresholdReason(rules []model.ThresholdRule, current *float64) (string, bool) {
	if current == nil {
		return "", false
	}
	var reason string
	for _, tr := range rules {
		if !tr.Enabled {
			continue
		}
		if *current <= tr.ThresholdCAD {
			reason = fmt.Sprintf("Price $%.2f at or below threshold $%.2f CAD", *current, tr.ThresholdCAD)
		}
	}
	return reason, reason != ""
}

// shouldSendNotification gates delivery on the global enable flag and on a
// configured credential.
func shouldSendNotification(settings model.NotificationSettings) bool {
	return settings.NotificationsEnabled && settings.PushbulletAPIKey != ""
}

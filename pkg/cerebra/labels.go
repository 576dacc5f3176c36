// ABOUTME: Label group queries, mutations and the live label stream
// ABOUTME: Implements Labels, AddLabels, group lifecycle and StreamLabels
package cerebra

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cerebra-health/cerebra-go/pkg/graphql"
)

const (
	defaultLabelPageSize = 200
	labelBatchSize       = 500
)

// Labels returns the label group with every label in [from, to),
// paging through the results. Times are epoch milliseconds; pass 0 and
// 9e12 for the whole study.
func (c *Client) Labels(ctx context.Context, studyID, labelGroupID string, from, to float64) (*LabelGroup, error) {
	req := c.request(labelsQuery, map[string]any{
		"id":           studyID,
		"labelGroupId": labelGroupID,
		"fromTime":     from,
		"toTime":       to,
	})

	var group *LabelGroup
	err := c.gql.DoPaginated(ctx, req, defaultLabelPageSize, func(data json.RawMessage) (int, error) {
		var page struct {
			Study struct {
				LabelGroup *LabelGroup `json:"labelGroup"`
			} `json:"study"`
		}
		if err := json.Unmarshal(data, &page); err != nil {
			return 0, fmt.Errorf("decode labels page: %w", err)
		}
		if page.Study.LabelGroup == nil {
			return 0, fmt.Errorf("label group %q not found in study %q", labelGroupID, studyID)
		}
		if group == nil {
			g := *page.Study.LabelGroup
			g.Labels = nil
			group = &g
		}
		group.Labels = append(group.Labels, page.Study.LabelGroup.Labels...)
		return len(page.Study.LabelGroup.Labels), nil
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

// AddLabels adds labels to a label group in batches of 500 and returns
// the IDs of the created labels. On error the returned IDs cover the
// batches that were already committed.
func (c *Client) AddLabels(ctx context.Context, groupID string, labels []NewLabel) ([]string, error) {
	var ids []string
	for start := 0; start < len(labels); start += labelBatchSize {
		end := start + labelBatchSize
		if end > len(labels) {
			end = len(labels)
		}

		var out struct {
			Added []struct {
				ID string `json:"id"`
			} `json:"addLabelsToLabelGroup"`
		}
		req := c.request(addLabelsMutation, map[string]any{
			"groupId": groupID,
			"labels":  labels[start:end],
		})
		if err := c.gql.Do(ctx, req, &out); err != nil {
			return ids, err
		}
		for _, added := range out.Added {
			ids = append(ids, added.ID)
		}
	}
	return ids, nil
}

// AddLabelGroup creates a label group on the study and returns its ID.
// labelType is optional.
func (c *Client) AddLabelGroup(ctx context.Context, studyID, name, description, labelType string) (string, error) {
	vars := map[string]any{
		"studyId":     studyID,
		"name":        name,
		"description": description,
	}
	if labelType != "" {
		vars["labelType"] = labelType
	}

	var out struct {
		Added struct {
			ID string `json:"id"`
		} `json:"addLabelGroupToStudy"`
	}
	if err := c.gql.Do(ctx, c.request(addLabelGroupMutation, vars), &out); err != nil {
		return "", err
	}
	return out.Added.ID, nil
}

// RemoveLabelGroup deletes a label group and its labels.
func (c *Client) RemoveLabelGroup(ctx context.Context, groupID string) error {
	return c.gql.Do(ctx, c.request(removeLabelGroupMutation, map[string]any{"groupId": groupID}), nil)
}

// LabelEvent is one delivery from StreamLabels: a freshly added label
// or a stream error.
type LabelEvent struct {
	StudyID string
	Label   Label
	Err     error
}

// StreamLabels subscribes to labels as they are added to the study.
// Events arrive on the returned channel until the context is canceled,
// stop is called, or the connection drops; the channel closes when the
// stream ends.
func (c *Client) StreamLabels(ctx context.Context, studyID string) (<-chan LabelEvent, func(), error) {
	sub := graphql.NewSubscriptionClient(graphql.SubscriptionConfig{
		Endpoint: c.cfg.APIURL + "/graphql",
		Auth:     c.cfg.Auth,
		Logger:   c.log,
	})
	if err := sub.Connect(ctx); err != nil {
		return nil, nil, err
	}

	events, cancel, err := sub.Subscribe(graphql.Request{
		Query:     labelAddedSubscription,
		Variables: map[string]any{"studyId": studyID},
	})
	if err != nil {
		sub.Close()
		return nil, nil, err
	}

	out := make(chan LabelEvent, 16)
	go func() {
		defer close(out)
		for ev := range events {
			labelEv := LabelEvent{StudyID: studyID}
			if ev.Err != nil {
				labelEv.Err = ev.Err
			} else {
				var payload struct {
					LabelAdded Label `json:"labelAdded"`
				}
				if err := json.Unmarshal(ev.Data, &payload); err != nil {
					labelEv.Err = fmt.Errorf("decode label event: %w", err)
				} else {
					labelEv.Label = payload.LabelAdded
				}
			}
			select {
			case out <- labelEv:
			case <-ctx.Done():
				return
			}
		}
	}()

	stop := func() {
		cancel()
		sub.Close()
	}
	return out, stop, nil
}

package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gwi.com/globallaunch-advisor/internal/chart"
	"gwi.com/globallaunch-advisor/internal/store"
)

const assessmentReply = "Summary first.\n```json_chart\n" +
	`{"type":"assessment","title":"Project Assessment","data":{` +
	`"completeness":{"score":60,"status":"Partial","acquiredFields":["Market"],"missingFields":["BOM"]},` +
	`"decision":{"result":"NO-GO","confidence":70,"summary":"Too thin"},` +
	`"strategicQuestions":["What is the BOM?"],` +
	`"risks":[{"type":"Privacy","level":"High","probability":"Medium","description":"camera","mitigation":"GDPR review"}],` +
	`"scoringTable":[{"category":"Market Demand","score":8,"weight":0.2,"rationale":"big","impact":"High"},` +
	`{"category":"Capital Efficiency","score":4,"weight":0.2,"rationale":"small budget","impact":"High"}]}}` +
	"\n```\nThat is all."

func TestSendTurnWithChart(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{}
	analyst := &fakeAnalyst{reply: assessmentReply}
	svc := newTestService(t, repo, analyst)

	reply, err := svc.SendTurn(ctx, "Evaluate my pet feeder", nil)

	require.NoError(t, err)
	assert.Equal(t, store.RoleModel, reply.Role)
	assert.Equal(t, "Summary first.\n"+chart.Placeholder+"\nThat is all.", reply.Text)
	require.NotNil(t, reply.Chart)
	assert.Equal(t, chart.TypeAssessment, reply.Chart.Type)

	ws := svc.Workspace()
	require.Len(t, ws.Session.Messages, 3)
	assert.Equal(t, "Evaluate my pet feeder", ws.Session.Messages[1].Text)
	assert.Equal(t, "Evaluate my pet feed", ws.Session.Title)
	assert.False(t, ws.Busy)

	require.Len(t, analyst.requests, 1)
	assert.Len(t, analyst.requests[0].History, 1, "history excludes the new input")
	assert.Equal(t, "Evaluate my pet feeder", analyst.requests[0].Input)
	assert.Equal(t, store.ModeExpertAnalysis, analyst.modes[0])

	stored := repo.stored()
	require.Len(t, stored, 1)
	assert.Len(t, stored[0].Messages, 3)
}

func TestSendTurnRejectsEmptyInput(t *testing.T) {
	analyst := &fakeAnalyst{reply: "x"}
	svc := newTestService(t, &memRepo{}, analyst)

	_, err := svc.SendTurn(context.Background(), "   ", nil)

	assert.ErrorIs(t, err, ErrEmptyTurn)
	assert.Zero(t, analyst.calls())
	assert.Len(t, svc.Workspace().Session.Messages, 1)
}

func TestSendTurnAttachmentOnly(t *testing.T) {
	analyst := &fakeAnalyst{reply: "seen"}
	svc := newTestService(t, &memRepo{}, analyst)
	svc.AddAttachments([]store.Attachment{{Name: "bom.csv", MIMEType: "text/csv", Data: "YSxi"}})
	svc.SetDraft("draft")

	_, err := svc.SendTurn(context.Background(), "", []store.Attachment{{Name: "deck.pptx"}})

	require.NoError(t, err)
	ws := svc.Workspace()
	assert.Empty(t, ws.PendingAttachments)
	assert.Empty(t, ws.Draft)
	user := ws.Session.Messages[1]
	require.Len(t, user.Attachments, 2)
	assert.Equal(t, "bom.csv", user.Attachments[0].Name)
	assert.Equal(t, "deck.pptx", user.Attachments[1].Name)
	assert.Len(t, analyst.requests[0].Attachments, 2)
	assert.Equal(t, DefaultTitle, ws.Session.Title)
}

func TestSendTurnAnalystFailure(t *testing.T) {
	analyst := &fakeAnalyst{err: errors.New("quota exceeded")}
	svc := newTestService(t, &memRepo{}, analyst)

	reply, err := svc.SendTurn(context.Background(), "hello", nil)

	require.NoError(t, err)
	assert.Equal(t, turnErrorText, reply.Text)
	assert.Nil(t, reply.Chart)
	assert.False(t, svc.Workspace().Busy)
}

func TestSendTurnWhileBusyIsDropped(t *testing.T) {
	ctx := context.Background()
	analyst := &fakeAnalyst{reply: "done", started: make(chan struct{}), unblock: make(chan struct{})}
	svc := newTestService(t, &memRepo{}, analyst)

	done := make(chan error, 1)
	go func() {
		_, err := svc.SendTurn(ctx, "first", nil)
		done <- err
	}()
	<-analyst.started

	assert.True(t, svc.Workspace().Busy)
	_, err := svc.SendTurn(ctx, "second", nil)
	assert.ErrorIs(t, err, ErrTurnInProgress)
	assert.Len(t, svc.Workspace().Session.Messages, 2)

	close(analyst.unblock)
	require.NoError(t, <-done)

	assert.Equal(t, 1, analyst.calls())
	ws := svc.Workspace()
	assert.False(t, ws.Busy)
	require.Len(t, ws.Session.Messages, 3)
	assert.Equal(t, "done", ws.Session.Messages[2].Text)
}

func TestReplyLandsInOriginatingSession(t *testing.T) {
	ctx := context.Background()
	analyst := &fakeAnalyst{reply: "late answer", started: make(chan struct{}), unblock: make(chan struct{})}
	svc := newTestService(t, &memRepo{}, analyst)
	origin := svc.Workspace().Session.ID

	done := make(chan error, 1)
	go func() {
		_, err := svc.SendTurn(ctx, "question", nil)
		done <- err
	}()
	<-analyst.started

	other := svc.CreateSession(ctx)
	close(analyst.unblock)
	require.NoError(t, <-done)

	ws := svc.Workspace()
	assert.Equal(t, other.ID, ws.Session.ID)
	assert.Len(t, ws.Session.Messages, 1)

	sess, err := svc.Session(origin)
	require.NoError(t, err)
	require.Len(t, sess.Messages, 3)
	assert.Equal(t, "late answer", sess.Messages[2].Text)
	assert.Equal(t, "question", sess.Title)
	assert.False(t, svc.IsBusy(origin))
}

func TestReplyForDeletedSessionIsDropped(t *testing.T) {
	ctx := context.Background()
	analyst := &fakeAnalyst{reply: "orphan", started: make(chan struct{}), unblock: make(chan struct{})}
	svc := newTestService(t, &memRepo{}, analyst)
	origin := svc.Workspace().Session.ID

	done := make(chan error, 1)
	go func() {
		_, err := svc.SendTurn(ctx, "question", nil)
		done <- err
	}()
	<-analyst.started

	require.NoError(t, svc.DeleteSession(ctx, origin))
	close(analyst.unblock)

	assert.ErrorIs(t, <-done, ErrSessionNotFound)
	for _, s := range svc.ListSessions() {
		assert.NotEqual(t, origin, s.ID)
	}
}

func TestSendTurnSurvivesCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	analyst := &fakeAnalyst{reply: "finished", started: make(chan struct{}), unblock: make(chan struct{})}
	svc := newTestService(t, &memRepo{}, analyst)

	done := make(chan *store.Message, 1)
	go func() {
		reply, _ := svc.SendTurn(ctx, "question", nil)
		done <- reply
	}()
	<-analyst.started
	cancel()
	close(analyst.unblock)

	reply := <-done
	require.NotNil(t, reply)
	assert.Equal(t, "finished", reply.Text)
}

func TestPersonaTurnCarriesExpertContext(t *testing.T) {
	ctx := context.Background()
	analyst := &fakeAnalyst{reply: assessmentReply}
	svc := newTestService(t, &memRepo{}, analyst)

	_, err := svc.SendTurn(ctx, "evaluate", nil)
	require.NoError(t, err)
	_, err = svc.SwitchMode(ctx, store.ModePersonaSimulation)
	require.NoError(t, err)
	analyst.reply = "Looks cheap"
	_, err = svc.SendTurn(ctx, "Would you buy it?", nil)
	require.NoError(t, err)

	require.Len(t, analyst.requests, 2)
	assert.Equal(t, store.ModePersonaSimulation, analyst.modes[1])
	req := analyst.requests[1]
	assert.Equal(t, store.DefaultPersona, req.Persona)
	assert.Contains(t, req.ExpertContext, "NO-GO")
	assert.Contains(t, req.ExpertContext, "Capital Efficiency")
	assert.NotContains(t, req.ExpertContext, "Market Demand")
	assert.Contains(t, req.ExpertContext, "Privacy")
}

func TestLoadDemo(t *testing.T) {
	ctx := context.Background()
	analyst := &fakeAnalyst{reply: assessmentReply}
	svc := newTestService(t, &memRepo{}, analyst)

	sess, err := svc.LoadDemo(ctx, "ebike")

	require.NoError(t, err)
	assert.Equal(t, "💡 E-Bike Conversion Kit", sess.Title)
	require.Len(t, sess.Messages, 3)
	assert.Contains(t, sess.Messages[0].Text, "E-Bike Conversion Kit")
	assert.Equal(t, store.RoleUser, sess.Messages[1].Role)
	assert.NotNil(t, sess.Messages[2].Chart)
	assert.Empty(t, analyst.requests[0].History)
	assert.Equal(t, store.ModeExpertAnalysis, analyst.modes[0])

	list := svc.ListSessions()
	require.Len(t, list, 2)
	assert.Equal(t, sess.ID, list[0].ID)
	assert.True(t, list[0].Active)
	assert.False(t, list[0].Busy)
}

func TestLoadDemoKeepsRecencyOrderWhenClockGoesBack(t *testing.T) {
	svc := newTestService(t, &memRepo{}, &fakeAnalyst{reply: "ok"})
	first := svc.ListSessions()[0]
	svc.now = func() time.Time { return first.LastModified.Add(-time.Hour) }

	sess, err := svc.LoadDemo(context.Background(), "coffee")

	require.NoError(t, err)
	list := svc.ListSessions()
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, sess.ID, list[1].ID)
	assert.True(t, list[1].Active)
}

func TestLoadDemoFailureText(t *testing.T) {
	analyst := &fakeAnalyst{err: errors.New("offline")}
	svc := newTestService(t, &memRepo{}, analyst)

	sess, err := svc.LoadDemo(context.Background(), "pet")

	require.NoError(t, err)
	assert.Equal(t, demoErrorText, sess.Messages[2].Text)
}

func TestLoadDemoUnknownScenario(t *testing.T) {
	svc := newTestService(t, &memRepo{}, &fakeAnalyst{})

	_, err := svc.LoadDemo(context.Background(), "drone")

	assert.ErrorIs(t, err, ErrUnknownScenario)
	assert.Len(t, svc.ListSessions(), 1)
}

func TestDemoScenariosReturnsCopy(t *testing.T) {
	list := DemoScenarios()
	require.Len(t, list, 3)
	list[0].Title = "changed"

	assert.Equal(t, "Smart Pet Feeder", DemoScenarios()[0].Title)
}

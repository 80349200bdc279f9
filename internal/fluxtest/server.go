// Package fluxtest provides an in-process fake of the tracker backend
// for tests: the full REST surface with the one-log-per-day and
// single-active-plan rules enforced, plus hit counting, request body
// capture and forced-failure injection.
package fluxtest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/2beens/fluxtrack/internal/api"

	"github.com/gorilla/mux"
)

type forcedFailure struct {
	status int
	body   string
}

type Server struct {
	httpServer *httptest.Server

	mu         sync.Mutex
	today      string
	profile    *api.Profile
	logs       map[string]*api.DailyLog
	plan       *api.Plan
	weekTarget *api.WeeklyTarget
	pending    *api.FluxNotification
	nextLogID  int
	nextPlanID int

	hits     map[string]int
	lastBody map[string][]byte
	failures map[string]forcedFailure
	blockers map[string]chan struct{}
}

func NewServer() *Server {
	s := &Server{
		today:    time.Now().Format("2006-01-02"),
		logs:     make(map[string]*api.DailyLog),
		hits:     make(map[string]int),
		lastBody: make(map[string][]byte),
		failures: make(map[string]forcedFailure),
		blockers: make(map[string]chan struct{}),
	}

	router := mux.NewRouter()
	router.HandleFunc("/profile", s.wrap(s.handleGetProfile)).Methods(http.MethodGet)
	router.HandleFunc("/profile", s.wrap(s.handlePutProfile)).Methods(http.MethodPut)
	router.HandleFunc("/logs/today", s.wrap(s.handleGetTodayLog)).Methods(http.MethodGet)
	router.HandleFunc("/logs", s.wrap(s.handleCreateLog)).Methods(http.MethodPost)
	router.HandleFunc("/logs/today", s.wrap(s.handleDeleteTodayLog)).Methods(http.MethodDelete)
	router.HandleFunc("/logs/{date}/actual-training", s.wrap(s.handleUpdateActualTraining)).Methods(http.MethodPatch)
	router.HandleFunc("/plans/active", s.wrap(s.handleGetActivePlan)).Methods(http.MethodGet)
	router.HandleFunc("/plans", s.wrap(s.handleCreatePlan)).Methods(http.MethodPost)
	router.HandleFunc("/plans/current-week", s.wrap(s.handleGetCurrentWeek)).Methods(http.MethodGet)
	router.HandleFunc("/plans/{id}/{transition}", s.wrap(s.handlePlanTransition)).Methods(http.MethodPost)
	router.HandleFunc("/notifications/pending", s.wrap(s.handleGetPending)).Methods(http.MethodGet)
	router.HandleFunc("/notifications/{id}/dismiss", s.wrap(s.handleDismiss)).Methods(http.MethodPost)

	s.httpServer = httptest.NewServer(router)
	return s
}

func (s *Server) URL() string {
	return s.httpServer.URL
}

func (s *Server) Client() *http.Client {
	return s.httpServer.Client()
}

func (s *Server) Close() {
	s.httpServer.Close()
}

func (s *Server) Today() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.today
}

// Hits returns how many times the route was called, e.g.
// Hits(http.MethodGet, "/plans/active").
func (s *Server) Hits(method, pathTemplate string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[routeKey(method, pathTemplate)]
}

// LastBody returns the raw request body of the route's last call.
func (s *Server) LastBody(method, pathTemplate string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastBody[routeKey(method, pathTemplate)]
}

// FailWith makes every subsequent call of the route fail with the given
// status and raw body, until ClearFailure.
func (s *Server) FailWith(method, pathTemplate string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[routeKey(method, pathTemplate)] = forcedFailure{status: status, body: body}
}

// BlockNext makes the next call of the route hang until the returned
// release func runs. Used to pin down in-flight requests in
// supersede/cancellation tests; always call release before Close.
func (s *Server) BlockNext(method, pathTemplate string) (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.blockers[routeKey(method, pathTemplate)] = gate
	s.mu.Unlock()
	return func() {
		select {
		case <-gate:
		default:
			close(gate)
		}
	}
}

func (s *Server) ClearFailure(method, pathTemplate string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, routeKey(method, pathTemplate))
}

func (s *Server) SetPlan(plan *api.Plan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plan = plan
}

func (s *Server) SetWeekTarget(target *api.WeeklyTarget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weekTarget = target
}

func (s *Server) SetPending(notification *api.FluxNotification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = notification
}

func (s *Server) Pending() *api.FluxNotification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func routeKey(method, pathTemplate string) string {
	return method + " " + pathTemplate
}

// wrap records the hit and the request body, and short-circuits with a
// forced failure when one is registered for the route.
func (s *Server) wrap(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		template, err := mux.CurrentRoute(r).GetPathTemplate()
		if err != nil {
			http.Error(w, "no route template", http.StatusInternalServerError)
			return
		}
		key := routeKey(r.Method, template)

		bodyBytes, _ := io.ReadAll(r.Body)

		s.mu.Lock()
		s.hits[key]++
		s.lastBody[key] = bodyBytes
		failure, failed := s.failures[key]
		gate, blocked := s.blockers[key]
		if blocked {
			delete(s.blockers, key)
		}
		s.mu.Unlock()

		if blocked {
			<-gate
		}

		if failed {
			w.WriteHeader(failure.status)
			_, _ = w.Write([]byte(failure.body))
			return
		}

		r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		handler(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error":   code,
		"message": message,
	})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	profile := s.profile
	s.mu.Unlock()

	if profile == nil {
		writeError(w, http.StatusNotFound, "not_found", "no profile saved")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var profile api.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid profile body")
		return
	}

	s.mu.Lock()
	s.profile = &profile
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleGetTodayLog(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	dailyLog := s.logs[s.today]
	s.mu.Unlock()

	if dailyLog == nil {
		writeError(w, http.StatusNotFound, "not_found", "no log for today")
		return
	}
	writeJSON(w, http.StatusOK, dailyLog)
}

func (s *Server) handleCreateLog(w http.ResponseWriter, r *http.Request) {
	var req api.CreateLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid log body")
		return
	}
	if req.Date == "" || req.WeightKg <= 0 {
		writeError(w, http.StatusBadRequest, "validation_error", "date and weight are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.logs[req.Date]; exists {
		writeError(w, http.StatusConflict, "already_exists", fmt.Sprintf("log for %s already exists", req.Date))
		return
	}

	s.nextLogID++
	dailyLog := &api.DailyLog{
		ID:               fmt.Sprintf("log-%d", s.nextLogID),
		Date:             req.Date,
		WeightKg:         req.WeightKg,
		SleepHours:       req.SleepHours,
		HRV:              req.HRV,
		RestingHeartRate: req.RestingHeartRate,
		BodyFatPct:       req.BodyFatPct,
		PlannedTraining:  req.PlannedTraining,
		Targets: &api.DailyTargets{
			Calories: 2400,
			ProteinG: 160,
			CarbsG:   250,
			FatG:     80,
			WaterMl:  2500,
			DayType:  "training",
		},
		TDEE: 2650,
	}
	s.logs[req.Date] = dailyLog

	writeJSON(w, http.StatusCreated, dailyLog)
}

func (s *Server) handleDeleteTodayLog(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.logs[s.today]; !exists {
		writeError(w, http.StatusNotFound, "not_found", "no log for today")
		return
	}
	delete(s.logs, s.today)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateActualTraining(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]

	var sessions []api.ActualTrainingWrite
	if err := json.NewDecoder(r.Body).Decode(&sessions); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid sessions body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dailyLog, exists := s.logs[date]
	if !exists {
		writeError(w, http.StatusNotFound, "not_found", fmt.Sprintf("no log for %s", date))
		return
	}

	dailyLog.ActualTraining = dailyLog.ActualTraining[:0]
	for i, session := range sessions {
		dailyLog.ActualTraining = append(dailyLog.ActualTraining, api.ActualTrainingSession{
			Type:               session.Type,
			DurationMin:        session.DurationMin,
			Notes:              session.Notes,
			PerceivedIntensity: session.PerceivedIntensity,
			SessionOrder:       i + 1,
		})
	}

	writeJSON(w, http.StatusOK, dailyLog)
}

func (s *Server) handleGetActivePlan(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	plan := s.plan
	s.mu.Unlock()

	// "active" here means the one current plan, paused included;
	// terminal plans are gone from this endpoint
	if plan == nil || (plan.Status != api.PlanStatusActive && plan.Status != api.PlanStatusPaused) {
		writeError(w, http.StatusNotFound, "not_found", "no active plan")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req api.CreatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid plan body")
		return
	}
	if req.DurationWeeks <= 0 {
		writeError(w, http.StatusBadRequest, "validation_error", "duration must be positive")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.plan != nil && (s.plan.Status == api.PlanStatusActive || s.plan.Status == api.PlanStatusPaused) {
		writeError(w, http.StatusConflict, "active_plan_exists", "an active plan already exists")
		return
	}

	s.nextPlanID++
	weeklyChange := (req.StartWeightKg - req.TargetWeightKg) / float64(req.DurationWeeks)
	plan := &api.Plan{
		ID:               fmt.Sprintf("plan-%d", s.nextPlanID),
		StartWeightKg:    req.StartWeightKg,
		TargetWeightKg:   req.TargetWeightKg,
		DurationWeeks:    req.DurationWeeks,
		WeeklyChangeKg:   weeklyChange,
		DailyDeficitKcal: int(weeklyChange * 7700 / 7),
		Status:           api.PlanStatusActive,
		StartedAt:        time.Now(),
	}
	for week := 1; week <= req.DurationWeeks; week++ {
		plan.WeeklyTargets = append(plan.WeeklyTargets, api.WeeklyTarget{
			Week:           week,
			TargetWeightKg: req.StartWeightKg - weeklyChange*float64(week),
			Calories:       2400 - plan.DailyDeficitKcal,
			DeficitKcal:    plan.DailyDeficitKcal,
		})
	}
	s.plan = plan

	writeJSON(w, http.StatusCreated, plan)
}

func (s *Server) handlePlanTransition(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	transition := vars["transition"]

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.plan == nil || s.plan.ID != id {
		writeError(w, http.StatusNotFound, "not_found", fmt.Sprintf("no plan %s", id))
		return
	}

	switch transition {
	case "complete":
		s.plan.Status = api.PlanStatusCompleted
	case "abandon":
		s.plan.Status = api.PlanStatusAbandoned
	case "pause":
		if s.plan.Status != api.PlanStatusActive {
			writeError(w, http.StatusBadRequest, "validation_error", "only an active plan can be paused")
			return
		}
		s.plan.Status = api.PlanStatusPaused
	case "resume":
		if s.plan.Status != api.PlanStatusPaused {
			writeError(w, http.StatusBadRequest, "validation_error", "only a paused plan can be resumed")
			return
		}
		s.plan.Status = api.PlanStatusActive
	case "recalibrate":
		s.recalibrateLocked(w, r)
		return
	default:
		writeError(w, http.StatusNotFound, "not_found", fmt.Sprintf("unknown transition %s", transition))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// recalibrateLocked mutates the plan targets per option and responds
// with the full updated plan. Caller holds s.mu.
func (s *Server) recalibrateLocked(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Option api.RecalibrationOption `json:"option"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.Option.Valid() {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid recalibration option")
		return
	}

	previousDeficit := s.plan.DailyDeficitKcal
	switch req.Option {
	case api.RecalibrationIncreaseDeficit:
		s.plan.DailyDeficitKcal += 200
		for i := range s.plan.WeeklyTargets {
			s.plan.WeeklyTargets[i].Calories -= 200
			s.plan.WeeklyTargets[i].DeficitKcal += 200
		}
	case api.RecalibrationExtendTimeline:
		s.plan.DurationWeeks += 2
	case api.RecalibrationReviseGoal:
		s.plan.TargetWeightKg += 1
	case api.RecalibrationKeepCurrent:
		// no target change, only a history entry
	}

	s.plan.Recalibrations = append(s.plan.Recalibrations, api.RecalibrationRecord{
		ID:                  fmt.Sprintf("recal-%d", len(s.plan.Recalibrations)+1),
		Option:              req.Option,
		PreviousDeficitKcal: previousDeficit,
		NewDeficitKcal:      s.plan.DailyDeficitKcal,
		CreatedAt:           time.Now(),
	})

	writeJSON(w, http.StatusOK, s.plan)
}

func (s *Server) handleGetCurrentWeek(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	target := s.weekTarget
	s.mu.Unlock()

	if target == nil {
		writeError(w, http.StatusNotFound, "not_found", "no plan covers the current week")
		return
	}
	writeJSON(w, http.StatusOK, target)
}

func (s *Server) handleGetPending(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	pending := s.pending
	s.mu.Unlock()

	if pending == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, pending)
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	if s.pending != nil && s.pending.ID == id {
		s.pending = nil
	}
	s.mu.Unlock()

	// dismissal is idempotent, unknown ids included
	w.WriteHeader(http.StatusNoContent)
}

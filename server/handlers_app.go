package server

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jrsteele09/squadhub/apierrors"
	"github.com/jrsteele09/squadhub/auth"
	"github.com/jrsteele09/squadhub/calendar"
	"github.com/jrsteele09/squadhub/communication"
	"github.com/jrsteele09/squadhub/documents"
	"github.com/jrsteele09/squadhub/guards"
	apperrors "github.com/jrsteele09/squadhub/internal/errors"
	"github.com/jrsteele09/squadhub/lineup"
	"github.com/jrsteele09/squadhub/teams"
	"github.com/jrsteele09/squadhub/users"
)

const dashboardListSize = 5

type dashboardData struct {
	Team          *teams.Team
	Events        []calendar.Event
	Announcements []communication.Announcement
}

func (s *Server) DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var data dashboardData

		team, err := s.Teams.MyTeam(ctx)
		if err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
			s.fail(w, r, err)
			return
		}
		data.Team = team

		events, err := s.Calendar.ListEvents(ctx)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		now := time.Now()
		for i := range events {
			if events[i].Upcoming(now) && len(data.Events) < dashboardListSize {
				data.Events = append(data.Events, events[i])
			}
		}

		anns, err := s.Comms.ListAnnouncements(ctx)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if len(anns) > dashboardListSize {
			anns = anns[:dashboardListSize]
		}
		data.Announcements = anns

		s.render(w, r, http.StatusOK, "dashboard", s.newPage(r, "Dashboard", data))
	}
}

type calendarData struct {
	Events     []calendar.Event
	Selected   *calendar.Event
	Attendance []calendar.Attendance
	CanEdit    bool
	Statuses   []calendar.AttendanceStatus
}

// CalendarHandler lists events. With ?event=ID and the right capability it
// also shows that event's attendance sheet.
func (s *Server) CalendarHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := s.Store.User()
		events, err := s.Calendar.ListEvents(ctx)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		data := calendarData{
			Events:   events,
			CanEdit:  users.Can(user, users.CapEditAttendance),
			Statuses: calendar.MarkableStatuses,
		}
		if id, ok := queryInt64(r.URL.Query(), "event"); ok && users.Can(user, users.CapViewAttendance) {
			for i := range events {
				if events[i].ID == id {
					data.Selected = &events[i]
				}
			}
			if data.Selected != nil {
				if data.Attendance, err = s.Calendar.ListAttendance(ctx, id); err != nil {
					s.fail(w, r, err)
					return
				}
			}
		}
		s.render(w, r, http.StatusOK, "calendar", s.newPage(r, "Calendar", data))
	}
}

func (s *Server) AttendanceSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !users.Can(s.Store.User(), users.CapEditAttendance) {
			s.fail(w, r, apperrors.ErrForbidden)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		eventID, ok1 := formInt64(r, "event")
		playerID, ok2 := formInt64(r, "player")
		if !ok1 || !ok2 {
			http.Error(w, "event and player are required", http.StatusBadRequest)
			return
		}
		update := calendar.AttendanceUpdate{Status: calendar.AttendanceStatus(r.FormValue("status"))}
		if _, err := s.Calendar.UpdateAttendance(r.Context(), eventID, playerID, update); err != nil {
			s.fail(w, r, err)
			return
		}
		http.Redirect(w, r, guards.RouteCalendar+"?event="+r.FormValue("event"), http.StatusSeeOther)
	}
}

type communicationData struct {
	Conversations []communication.Conversation
	Selected      *communication.Conversation
	Messages      []communication.Message
	Announcements []communication.Announcement
	ViewerID      int64
	CanAnnounce   bool
}

// CommunicationHandler shows conversations and announcements. Messages are
// refetched on every load.
func (s *Server) CommunicationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := s.Store.User()
		convs, err := s.Comms.ListConversations(ctx)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		anns, err := s.Comms.ListAnnouncements(ctx)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		data := communicationData{
			Conversations: convs,
			Announcements: anns,
			CanAnnounce:   users.Can(user, users.CapPostAnnouncement),
		}
		if user != nil {
			data.ViewerID = user.ID
		}
		if id, ok := queryInt64(r.URL.Query(), "c"); ok {
			for i := range convs {
				if convs[i].ID == id {
					data.Selected = &convs[i]
				}
			}
			if data.Selected != nil {
				if data.Messages, err = s.Comms.ListMessages(ctx, id); err != nil {
					s.fail(w, r, err)
					return
				}
			}
		}
		s.render(w, r, http.StatusOK, "communication", s.newPage(r, "Messages", data))
	}
}

// CommunicationSubmitHandler handles the message, direct message,
// announcement and read receipt forms, told apart by the action field.
func (s *Server) CommunicationSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		back := guards.RouteCommunication
		var err error
		switch r.FormValue("action") {
		case "send":
			id, ok := formInt64(r, "conversation")
			content := strings.TrimSpace(r.FormValue("content"))
			if !ok || content == "" {
				http.Error(w, "conversation and content are required", http.StatusBadRequest)
				return
			}
			_, err = s.Comms.SendMessage(ctx, id, content)
			back += "?c=" + r.FormValue("conversation")
		case "dm":
			userID, ok := formInt64(r, "user")
			if !ok {
				http.Error(w, "user is required", http.StatusBadRequest)
				return
			}
			var conv *communication.Conversation
			if conv, err = s.Comms.StartDM(ctx, userID); err == nil {
				back += "?c=" + strconv.FormatInt(conv.ID, 10)
			}
		case "announce":
			if !users.Can(s.Store.User(), users.CapPostAnnouncement) {
				s.fail(w, r, apperrors.ErrForbidden)
				return
			}
			team, _ := formInt64(r, "team")
			_, err = s.Comms.CreateAnnouncement(ctx, communication.AnnouncementInput{
				Team:     team,
				Title:    strings.TrimSpace(r.FormValue("title")),
				Content:  strings.TrimSpace(r.FormValue("content")),
				IsUrgent: r.FormValue("is_urgent") == "on",
			})
		case "read":
			id, ok := formInt64(r, "announcement")
			if !ok {
				http.Error(w, "announcement is required", http.StatusBadRequest)
				return
			}
			_, err = s.Comms.MarkAnnouncementRead(ctx, id)
		default:
			http.Error(w, "unknown action", http.StatusBadRequest)
			return
		}
		if err != nil {
			s.fail(w, r, err)
			return
		}
		http.Redirect(w, r, back, http.StatusSeeOther)
	}
}

type documentsData struct {
	Types     []string
	Groups    map[string][]documents.Document
	CanUpload bool
}

func (s *Server) DocumentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := s.Documents.List(r.Context())
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.render(w, r, http.StatusOK, "documents", s.newPage(r, "Documents", s.documentsData(docs)))
	}
}

func (s *Server) documentsData(docs []documents.Document) documentsData {
	keys, groups := documents.GroupByType(docs)
	return documentsData{Types: keys, Groups: groups, CanUpload: users.Can(s.Store.User(), users.CapUploadDocument)}
}

const maxUploadSize = 32 << 20

// DocumentsSubmitHandler uploads a document from a multipart form or
// deletes one when action=delete.
func (s *Server) DocumentsSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if !users.Can(s.Store.User(), users.CapUploadDocument) {
			s.fail(w, r, apperrors.ErrForbidden)
			return
		}
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "Invalid form data", http.StatusBadRequest)
				return
			}
		}
		if r.FormValue("action") == "delete" {
			id, ok := formInt64(r, "id")
			if !ok {
				http.Error(w, "id is required", http.StatusBadRequest)
				return
			}
			if err := s.Documents.Delete(ctx, id); err != nil {
				s.fail(w, r, err)
				return
			}
			http.Redirect(w, r, guards.RouteDocuments, http.StatusSeeOther)
			return
		}

		upload := documents.Upload{Title: r.FormValue("title"), Description: r.FormValue("description")}
		if file, header, err := r.FormFile("file"); err == nil {
			defer file.Close()
			upload.File = file
			upload.FileName = header.Filename
		}
		if _, err := s.Documents.Upload(ctx, upload); err != nil {
			docs, listErr := s.Documents.List(ctx)
			if listErr != nil {
				s.fail(w, r, listErr)
				return
			}
			page := s.newPage(r, "Documents", s.documentsData(docs))
			s.formFail(w, r, err, "documents", page)
			return
		}
		http.Redirect(w, r, guards.RouteDocuments, http.StatusSeeOther)
	}
}

type teamData struct {
	Team      *teams.Team
	Squad     *teams.Squad
	Staff     *teams.Staff
	Positions []string
	Groups    map[string][]teams.Member
	CanManage bool
}

func (s *Server) TeamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		team, err := s.Teams.MyTeam(ctx)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		season, _ := queryInt64(r.URL.Query(), "season")
		squad, err := s.Teams.GetSquad(ctx, team.ID, int(season))
		if err != nil {
			s.fail(w, r, err)
			return
		}
		staff, err := s.Teams.GetStaff(ctx, team.ID, int(season))
		if err != nil {
			s.fail(w, r, err)
			return
		}
		data := teamData{
			Team:      team,
			Squad:     squad,
			Staff:     staff,
			Groups:    squad.ByPosition(),
			CanManage: users.CanManageTeam(s.Store.User(), team.ID, team.Owner),
		}
		for _, p := range users.Positions {
			data.Positions = append(data.Positions, string(p))
		}
		data.Positions = append(data.Positions, teams.UnknownPosition)
		s.render(w, r, http.StatusOK, "team", s.newPage(r, team.Name, data))
	}
}

func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := auth.RefreshProfile(r.Context(), s.Auth, s.Store); err != nil {
			s.fail(w, r, err)
			return
		}
		s.render(w, r, http.StatusOK, "profile", s.newPage(r, "Profile", nil))
	}
}

func (s *Server) PasswordChangeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		req := auth.PasswordChangeRequest{
			NewPassword:     r.FormValue("new_password"),
			ConfirmPassword: r.FormValue("confirm_password"),
		}
		if err := s.Auth.ChangePassword(r.Context(), req); err != nil {
			s.formFail(w, r, err, "profile", s.newPage(r, "Profile", nil))
			return
		}
		http.Redirect(w, r, guards.RouteProfile+"?flash=Password+changed", http.StatusSeeOther)
	}
}

type lineupData struct {
	Formations []lineup.FormationKey
	Formation  lineup.FormationKey
	Slots      []lineupSlot
	Bench      []teams.Member
	Payload    lineup.Payload
}

type lineupSlot struct {
	lineup.Slot
	Player *teams.Member
	Left   float64
	Top    float64
}

func (s *Server) LineupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := s.lineupPage(r)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.render(w, r, http.StatusOK, "lineup", page)
	}
}

func (s *Server) lineupPage(r *http.Request) (*pageData, error) {
	ctx := r.Context()
	team, err := s.Teams.MyTeam(ctx)
	if err != nil {
		return nil, err
	}
	squad, err := s.Teams.GetSquad(ctx, team.ID, 0)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*teams.Member, len(squad.Players))
	for i := range squad.Players {
		byID[squad.Players[i].ID] = &squad.Players[i]
	}

	data := lineupData{
		Formations: lineup.Formations(),
		Formation:  s.board.Formation(),
		Bench:      s.board.Bench(squad.Players),
		Payload:    s.board.Payload(team.ID),
	}
	for _, slot := range s.board.Slots() {
		ls := lineupSlot{Slot: slot, Left: slot.X * 100, Top: (1 - slot.Y) * 100}
		if id, ok := s.board.PlayerAt(slot.ID); ok {
			ls.Player = byID[id]
		}
		data.Slots = append(data.Slots, ls)
	}
	return s.newPage(r, "Lineup builder", data), nil
}

// LineupSubmitHandler applies one board action: formation, assign, clear or
// reset.
func (s *Server) LineupSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		var err error
		switch r.FormValue("action") {
		case "formation":
			err = s.board.SetFormation(lineup.FormationKey(r.FormValue("formation")))
		case "assign":
			player, ok := formInt64(r, "player")
			if !ok {
				http.Error(w, "player is required", http.StatusBadRequest)
				return
			}
			err = s.board.Assign(player, r.FormValue("slot"))
		case "clear":
			s.board.ClearSlot(r.FormValue("slot"))
		case "reset":
			s.board.ClearAll()
		default:
			http.Error(w, "unknown action", http.StatusBadRequest)
			return
		}
		if err != nil {
			page, pageErr := s.lineupPage(r)
			if pageErr != nil {
				s.fail(w, r, pageErr)
				return
			}
			page.Errors = apierrors.Errors{}
			page.Errors.Add(apierrors.NonFieldErrors, err.Error())
			s.render(w, r, http.StatusBadRequest, "lineup", page)
			return
		}
		http.Redirect(w, r, guards.RouteLineup, http.StatusSeeOther)
	}
}

func queryInt64(q url.Values, key string) (int64, bool) {
	v, err := strconv.ParseInt(q.Get(key), 10, 64)
	return v, err == nil
}

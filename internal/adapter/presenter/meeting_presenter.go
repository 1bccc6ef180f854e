package presenter

import (
	"github.com/groupflow-app/groupflow/internal/adapter/dto/meeting"
	"github.com/groupflow-app/groupflow/internal/domain/entities"
	"github.com/groupflow-app/groupflow/internal/usecase/voting"
)

// ToMeetingResponse converts a Meeting entity to MeetingResponse DTO
func ToMeetingResponse(m *entities.Meeting, agenda []*entities.Activity) *meeting.MeetingResponse {
	if m == nil {
		return nil
	}

	response := &meeting.MeetingResponse{
		ID:            m.ID.String(),
		Title:         m.Title,
		Status:        string(m.Status),
		FacilitatorID: m.FacilitatorID.String(),
		StateVersion:  m.StateVersion,
		CreatedAt:     m.CreatedAt,
	}

	if m.CurrentActivityID != nil {
		id := m.CurrentActivityID.String()
		response.CurrentActivityID = &id
	}

	for _, a := range agenda {
		response.Activities = append(response.Activities, ToActivityResponse(a))
	}

	return response
}

// ToActivityResponse converts an Activity entity to ActivityResponse DTO
func ToActivityResponse(a *entities.Activity) *meeting.ActivityResponse {
	if a == nil {
		return nil
	}

	config := a.Config.Data()
	configDTO := meeting.ActivityConfigRequest{
		MaxVotes:         config.MaxVotes,
		AllowSubcomments: config.AllowSubcomments,
		AllowAnonymous:   config.AllowAnonymous,
		ShowResults:      config.ShowResults,
	}
	for _, opt := range config.Options {
		configDTO.Options = append(configDTO.Options, meeting.VoteOptionRequest{
			ID:    opt.ID,
			Label: opt.Label,
		})
	}

	return &meeting.ActivityResponse{
		ID:              a.ID.String(),
		MeetingID:       a.MeetingID.String(),
		ToolType:        string(a.ToolType),
		Title:           a.Title,
		Position:        a.Position,
		Phase:           string(a.Phase),
		Config:          configDTO,
		SubmissionCount: a.SubmissionSeq,
		StartedAt:       a.StartedAt,
		ClosedAt:        a.ClosedAt,
	}
}

// ToParticipantResponse converts a Participant entity to ParticipantResponse DTO
func ToParticipantResponse(p *entities.Participant) *meeting.ParticipantResponse {
	if p == nil {
		return nil
	}

	return &meeting.ParticipantResponse{
		ID:          p.ID.String(),
		MeetingID:   p.MeetingID.String(),
		UserID:      p.UserID.String(),
		DisplayName: p.DisplayName,
		JoinedAt:    p.JoinedAt,
	}
}

// ToSubmissionResponse converts a Submission entity to SubmissionResponse DTO
func ToSubmissionResponse(s *entities.Submission) *meeting.SubmissionResponse {
	if s == nil {
		return nil
	}

	response := &meeting.SubmissionResponse{
		ID:         s.ID.String(),
		ActivityID: s.ActivityID.String(),
		Seq:        s.Seq,
		Content:    s.Content,
		AuthorName: s.AuthorName,
		Anonymous:  s.IsAnonymous(),
		CreatedAt:  s.CreatedAt,
	}

	if s.ParentID != nil {
		id := s.ParentID.String()
		response.ParentID = &id
	}

	return response
}

// ToSubmissionListResponse converts submissions to the list DTO
func ToSubmissionListResponse(submissions []*entities.Submission) *meeting.SubmissionListResponse {
	responses := make([]*meeting.SubmissionResponse, len(submissions))
	for i, s := range submissions {
		responses[i] = ToSubmissionResponse(s)
	}

	return &meeting.SubmissionListResponse{
		Submissions: responses,
		Total:       len(responses),
	}
}

// ToCastVoteResponse converts a vote outcome to CastVoteResponse DTO
func ToCastVoteResponse(r *voting.CastVoteResult) *meeting.CastVoteResponse {
	if r == nil {
		return nil
	}

	return &meeting.CastVoteResponse{
		OptionID:   r.OptionID,
		TallyAfter: r.TallyAfter,
		Changed:    r.Changed,
	}
}

// ToOptionTallyResponses converts tallies to their DTO form
func ToOptionTallyResponses(tallies []entities.OptionTally) []meeting.OptionTallyResponse {
	responses := make([]meeting.OptionTallyResponse, len(tallies))
	for i, t := range tallies {
		responses[i] = meeting.OptionTallyResponse{
			OptionID: t.OptionID,
			Label:    t.Label,
			Count:    t.Count,
		}
	}
	return responses
}

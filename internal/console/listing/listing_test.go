package listing

import (
	"context"
	"errors"
	"testing"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/console/filters"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/model"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/upstream"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/upstream/upstreamtest"
)

func sampleAppointments() []model.Appointment {
	return []model.Appointment{
		{ID: "a1", DoctorID: "d1", PatientName: "N. Perera", TokenNumber: "T-05"},
		{ID: "a2", DoctorID: "d2", PatientName: "K. Silva", TokenNumber: "T-06"},
		{ID: "a3", DoctorID: "d1", PatientName: "M. Fernando", TokenNumber: "T-07"},
	}
}

func pageAPI(appts []model.Appointment, totalPages int) *upstreamtest.Fake {
	return &upstreamtest.Fake{
		ListAppointmentsFn: func(ctx context.Context, params upstream.ListAppointmentsParams) (*upstream.AppointmentPage, error) {
			return &upstream.AppointmentPage{Appointments: appts, TotalPages: totalPages}, nil
		},
	}
}

func TestNewClampsPerPage(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{in: 0, want: 20},
		{in: -5, want: 20},
		{in: 101, want: 20},
		{in: 50, want: 50},
		{in: 1, want: 1},
		{in: 100, want: 100},
	}
	for _, tt := range tests {
		c := New(&upstreamtest.Fake{}, tt.in, nil)
		if c.perPage != tt.want {
			t.Errorf("New(perPage=%d).perPage = %d, want %d", tt.in, c.perPage, tt.want)
		}
	}
}

func TestRefreshPassesComposedQuery(t *testing.T) {
	var got upstream.ListAppointmentsParams
	api := &upstreamtest.Fake{
		ListAppointmentsFn: func(ctx context.Context, params upstream.ListAppointmentsParams) (*upstream.AppointmentPage, error) {
			got = params
			return &upstream.AppointmentPage{Appointments: sampleAppointments(), TotalPages: 4}, nil
		},
	}
	c := New(api, 20, nil)

	f := filters.New()
	f.SetBranch("b1")
	f.SetStatus("confirmed")
	f.SetPage(3)

	page := c.Refresh(context.Background(), f)
	if got.BranchID != "b1" || got.Status != "confirmed" || got.Page != 3 || got.PerPage != 20 {
		t.Errorf("query params = %+v", got)
	}
	if page.Page != 3 || page.TotalPages != 4 {
		t.Errorf("page meta = %+v", page)
	}
}

func TestRefreshNarrowsBySearchLocally(t *testing.T) {
	c := New(pageAPI(sampleAppointments(), 4), 20, nil)
	f := filters.New()
	f.SetSearch("silva")

	page := c.Refresh(context.Background(), f)
	if len(page.Items) != 1 || page.Items[0].ID != "a2" {
		t.Errorf("items = %+v, want just a2", page.Items)
	}
	// Narrowing thins the page without touching the server's page count.
	if page.TotalPages != 4 {
		t.Errorf("total pages = %d, want 4", page.TotalPages)
	}
}

func TestRefreshSearchMatchesIDAndToken(t *testing.T) {
	c := New(pageAPI(sampleAppointments(), 1), 20, nil)

	f := filters.New()
	f.SetSearch("A3")
	page := c.Refresh(context.Background(), f)
	if len(page.Items) != 1 || page.Items[0].ID != "a3" {
		t.Errorf("id search items = %+v", page.Items)
	}

	f.SetSearch("t-06")
	page = c.Refresh(context.Background(), f)
	if len(page.Items) != 1 || page.Items[0].ID != "a2" {
		t.Errorf("token search items = %+v", page.Items)
	}
}

func TestRefreshNarrowsBySpecialization(t *testing.T) {
	specs := map[string]string{"d1": "Cardiology", "d2": "Dermatology"}
	c := New(pageAPI(sampleAppointments(), 2), 20, func(doctorID string) string {
		return specs[doctorID]
	})

	f := filters.New()
	f.SetSpecialization("cardio")
	page := c.Refresh(context.Background(), f)

	if len(page.Items) != 2 {
		t.Fatalf("items = %+v, want the two cardiology appointments", page.Items)
	}
	for _, a := range page.Items {
		if a.DoctorID != "d1" {
			t.Errorf("unexpected appointment %q with doctor %q", a.ID, a.DoctorID)
		}
	}
	if page.TotalPages != 2 {
		t.Errorf("total pages = %d, want 2", page.TotalPages)
	}
}

func TestRefreshErrorClearsPage(t *testing.T) {
	healthy := pageAPI(sampleAppointments(), 4)
	c := New(healthy, 20, nil)
	f := filters.New()

	if page := c.Refresh(context.Background(), f); len(page.Items) != 3 {
		t.Fatalf("seed refresh items = %d, want 3", len(page.Items))
	}

	c.api = &upstreamtest.Fake{
		ListAppointmentsFn: func(ctx context.Context, params upstream.ListAppointmentsParams) (*upstream.AppointmentPage, error) {
			return nil, errors.New("upstream down")
		},
	}
	page := c.Refresh(context.Background(), f)
	if len(page.Items) != 0 {
		t.Errorf("failed refresh kept stale items: %+v", page.Items)
	}
	if page.Error == "" {
		t.Error("failed refresh carried no error indicator")
	}
	if cur := c.Current(); len(cur.Items) != 0 || cur.Error == "" {
		t.Errorf("Current() after failure = %+v", cur)
	}
}

func TestRefreshDiscardsSupersededResponse(t *testing.T) {
	block := make(chan struct{})
	entered := make(chan struct{})
	calls := 0

	api := &upstreamtest.Fake{
		ListAppointmentsFn: func(ctx context.Context, params upstream.ListAppointmentsParams) (*upstream.AppointmentPage, error) {
			calls++
			if calls == 1 {
				close(entered)
				<-block
				return &upstream.AppointmentPage{
					Appointments: []model.Appointment{{ID: "old"}},
					TotalPages:   9,
				}, nil
			}
			return &upstream.AppointmentPage{
				Appointments: []model.Appointment{{ID: "new"}},
				TotalPages:   1,
			}, nil
		},
	}
	c := New(api, 20, nil)
	f := filters.New()

	first := make(chan Page)
	go func() {
		first <- c.Refresh(context.Background(), f)
	}()
	<-entered

	fresh := c.Refresh(context.Background(), f)
	close(block)
	stale := <-first

	if !stale.Stale {
		t.Error("superseded refresh should be marked stale")
	}
	if cur := c.Current(); len(cur.Items) != 1 || cur.Items[0].ID != "new" {
		t.Errorf("Current() = %+v, want the fresh page", cur)
	}
	if len(fresh.Items) != 1 || fresh.Items[0].ID != "new" {
		t.Errorf("fresh page = %+v", fresh)
	}
}

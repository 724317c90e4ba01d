package memory

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/theapemachine/contexthub/pkg/errors"
)

// scriptedInvoker answers each tool by name from a canned payload table and
// counts how often each tool was called.
type scriptedInvoker struct {
	payloads map[string]map[string]any
	calls    map[string]int
	lastArgs map[string]map[string]any
}

func newScriptedInvoker(payloads map[string]map[string]any) *scriptedInvoker {
	return &scriptedInvoker{
		payloads: payloads,
		calls:    map[string]int{},
		lastArgs: map[string]map[string]any{},
	}
}

func (inv *scriptedInvoker) Invoke(
	ctx context.Context, tool string, args map[string]any,
) (map[string]any, error) {
	inv.calls[tool]++
	inv.lastArgs[tool] = args

	if payload, ok := inv.payloads[tool]; ok {
		return payload, nil
	}

	return map[string]any{}, nil
}

func TestForgetfulProjectResolution(t *testing.T) {
	Convey("Given a forgetful backend and a never-before-seen group", t, func() {
		invoker := newScriptedInvoker(map[string]map[string]any{
			"list_projects":  {"projects": []any{}},
			"create_project": {"project_id": float64(42)},
			"create_memory":  {"memory_id": "m-1"},
		})
		backend := NewForgetful(invoker)

		Convey("When saving twice with the same group", func() {
			id1, err1 := backend.Save(context.Background(), "first", "my-group", SaveOptions{})
			id2, err2 := backend.Save(context.Background(), "second", "my-group", SaveOptions{})

			Convey("Then both saves succeed", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(id1, ShouldEqual, "m-1")
				So(id2, ShouldEqual, "m-1")
			})

			Convey("Then only one project creation was issued", func() {
				So(invoker.calls["list_projects"], ShouldEqual, 1)
				So(invoker.calls["create_project"], ShouldEqual, 1)
			})

			Convey("Then the resolved project id is sent with the memory", func() {
				So(invoker.lastArgs["create_memory"]["project_ids"], ShouldResemble, []int{42})
			})
		})
	})

	Convey("Given a group that already exists upstream", t, func() {
		invoker := newScriptedInvoker(map[string]map[string]any{
			"list_projects": {"projects": []any{
				map[string]any{"id": float64(7), "name": "existing"},
			}},
			"create_memory": {"memory_id": "m-2"},
		})
		backend := NewForgetful(invoker)

		Convey("When saving into it", func() {
			_, err := backend.Save(context.Background(), "content", "existing", SaveOptions{})

			Convey("Then no project is created", func() {
				So(err, ShouldBeNil)
				So(invoker.calls["create_project"], ShouldEqual, 0)
				So(invoker.lastArgs["create_memory"]["project_ids"], ShouldResemble, []int{7})
			})
		})
	})
}

func TestForgetfulSaveDefaults(t *testing.T) {
	Convey("Given a save with no options", t, func() {
		invoker := newScriptedInvoker(map[string]map[string]any{
			"create_project": {"project_id": float64(1)},
			"create_memory":  {"memory_id": "m-3"},
		})
		backend := NewForgetful(invoker)

		Convey("When saving", func() {
			_, err := backend.Save(context.Background(), "some content", "g", SaveOptions{})

			Convey("Then the defaults are applied", func() {
				So(err, ShouldBeNil)
				So(invoker.lastArgs["create_memory"]["title"], ShouldEqual, "Untitled")
				So(invoker.lastArgs["create_memory"]["importance"], ShouldEqual, 5)
			})
		})
	})

	Convey("Given invalid save options", t, func() {
		invoker := newScriptedInvoker(nil)
		backend := NewForgetful(invoker)

		Convey("When importance is out of range", func() {
			_, err := backend.Save(context.Background(), "content", "g", SaveOptions{Importance: 20})

			Convey("Then nothing is sent upstream", func() {
				So(err, ShouldNotBeNil)
				So(invoker.calls["create_memory"], ShouldEqual, 0)
			})
		})

		Convey("When the content is blank", func() {
			_, err := backend.Save(context.Background(), "", "g", SaveOptions{})

			Convey("Then validation rejects it", func() {
				So(err, ShouldNotBeNil)
				So(invoker.calls["create_memory"], ShouldEqual, 0)
			})
		})
	})
}

func TestForgetfulParsing(t *testing.T) {
	Convey("Given a query result with partially populated records", t, func() {
		invoker := newScriptedInvoker(map[string]map[string]any{
			"create_project": {"project_id": float64(1)},
			"query_memory": {"memories": []any{
				map[string]any{
					"id":                float64(11),
					"content":           "knows about auth",
					"importance":        float64(8),
					"linked_memory_ids": []any{float64(12), "13"},
				},
			}},
		})
		backend := NewForgetful(invoker)

		Convey("When querying", func() {
			memories, err := backend.Query(context.Background(), "auth", "g", 5)

			Convey("Then the record is normalized without failing", func() {
				So(err, ShouldBeNil)
				So(len(memories), ShouldEqual, 1)
				So(memories[0].ID, ShouldEqual, "11")
				So(*memories[0].Importance, ShouldEqual, 8)
			})

			Convey("Then the missing created_at defaults to now", func() {
				So(memories[0].CreatedAt, ShouldHappenWithin, time.Minute, time.Now().UTC())
			})

			Convey("Then numeric link ids become identifier strings", func() {
				So(memories[0].Metadata["linked_memory_ids"], ShouldResemble, []string{"12", "13"})
			})
		})

		Convey("When searching facts", func() {
			relationships, err := backend.SearchFacts(context.Background(), "auth", "g", 5)

			Convey("Then each linked id becomes a linked_to edge", func() {
				So(err, ShouldBeNil)
				So(len(relationships), ShouldEqual, 2)
				So(relationships[0].Source, ShouldEqual, "11")
				So(relationships[0].Target, ShouldEqual, "12")
				So(relationships[0].RelationType, ShouldEqual, "linked_to")
			})
		})
	})
}

func TestForgetfulUnavailable(t *testing.T) {
	Convey("Given a forgetful backend with no invoker", t, func() {
		backend := NewForgetful(nil)

		Convey("When any operation runs", func() {
			_, err := backend.Query(context.Background(), "q", "g", 5)

			Convey("Then it fails as backend-unavailable with guidance", func() {
				var unavailable *errors.ErrBackendUnavailable
				So(stderrors.As(err, &unavailable), ShouldBeTrue)
				So(unavailable.Backend, ShouldEqual, "forgetful")
				So(unavailable.Hint, ShouldNotBeEmpty)
			})
		})
	})
}

func TestForgetfulDiscovery(t *testing.T) {
	Convey("Given a forgetful backend", t, func() {
		backend := NewForgetful(newScriptedInvoker(nil))

		Convey("When asking for capabilities", func() {
			capabilities := backend.Capabilities()

			Convey("Then all operations are described", func() {
				So(len(capabilities), ShouldEqual, 5)
				So(capabilities[0].Name, ShouldEqual, "query")
				So(capabilities[0].Example, ShouldNotBeEmpty)
			})
		})

		Convey("When asking for an unknown operation", func() {
			_, schemaErr := backend.Schema("nope")
			_, examplesErr := backend.Examples("nope")

			Convey("Then both discovery calls fail the same way", func() {
				var unknown *errors.ErrUnknownOperation
				So(stderrors.As(schemaErr, &unknown), ShouldBeTrue)
				So(stderrors.As(examplesErr, &unknown), ShouldBeTrue)
				So(unknown.Operation, ShouldEqual, "nope")
			})
		})

		Convey("When asking for a known operation", func() {
			schema, err := backend.Schema("save")

			Convey("Then the schema carries the parameter table", func() {
				So(err, ShouldBeNil)
				So(schema.Params["importance"], ShouldEqual, "int (1-10)")
			})
		})
	})
}

package route

// InstructionKind distinguishes bus stops from transit transfers.
type InstructionKind string

const (
	InstructionStop     InstructionKind = "step"
	InstructionTransfer InstructionKind = "transfer-step"
)

// Connector is the timeline line drawn after an instruction.
type Connector string

const (
	ConnectorNone   Connector = ""
	ConnectorSolid  Connector = "solid-line"
	ConnectorDashed Connector = "dashed-line"
)

// Instruction is one entry of the step-by-step timeline.
type Instruction struct {
	Kind      InstructionKind `json:"kind"`
	DotClass  string          `json:"dot_class"`
	Title     string          `json:"title"`
	Subtitle  string          `json:"subtitle"`
	Connector Connector       `json:"connector,omitempty"`
}

// Instructions builds the timeline for the route. Only bus routes with stops
// and transit routes with transfers have one.
func (r *Route) Instructions() []Instruction {
	var out []Instruction

	if r.mode == ModeBus {
		for i, stop := range r.stops {
			ins := Instruction{
				Kind:     InstructionStop,
				DotClass: "timeline-dot " + string(r.mode),
				Title:    stop.Time,
				Subtitle: stop.Name,
			}
			if i < len(r.stops)-1 {
				ins.Connector = ConnectorSolid
			}
			out = append(out, ins)
		}
	}

	if r.mode == ModeTransit {
		for i, tr := range r.transfers {
			ins := Instruction{
				Kind:     InstructionTransfer,
				DotClass: "timeline-dot transfer",
				Title:    "Line: " + tr.Line,
				Subtitle: tr.Name,
			}
			if i < len(r.transfers)-1 {
				ins.Connector = ConnectorDashed
			}
			out = append(out, ins)
		}
	}

	return out
}

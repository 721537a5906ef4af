package assembler

import (
	"sort"

	"github.com/narrativekit/kb/internal/logging"
	"github.com/narrativekit/kb/pkg/activation"
	"github.com/narrativekit/kb/pkg/ids"
	"github.com/narrativekit/kb/pkg/kb"
)

// ContextAssembler runs spreading activation over a kb.Graph and
// reduces the result to an AssembledContext suitable for prompting.
// It holds no graph or world state of its own — those are passed in
// per call, so a single assembler can serve many concurrent
// AssembleContext calls as long as the graph is not being mutated.
type ContextAssembler struct {
	config Config
	log    logging.Logger
}

// AssemblerOption configures a new ContextAssembler.
type AssemblerOption func(*ContextAssembler)

// WithLogger attaches a structured logger. The default is logging.NopLogger().
func WithLogger(l logging.Logger) AssemblerOption {
	return func(a *ContextAssembler) { a.log = l }
}

// New creates a context assembler with the given configuration.
func New(config Config, opts ...AssemblerOption) *ContextAssembler {
	a := &ContextAssembler{config: config, log: logging.NopLogger()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// WithDefaults creates a context assembler using DefaultConfig.
func WithDefaults(opts ...AssemblerOption) *ContextAssembler {
	return New(DefaultConfig(), opts...)
}

// SpreadActivation seeds trigger tags with InitialEnergy and spreads
// it across the graph's associations for Config.MaxDepth iterations.
// Each iteration computes spread contributions entirely from the
// *pre-iteration* energy snapshot (a delta map), then merges the delta
// into the running state — so energy added during an iteration never
// spreads again within that same iteration.
func (a *ContextAssembler) SpreadActivation(graph *kb.Graph, triggerTags []kb.Tag) *activation.State {
	state := activation.New()
	for _, tag := range triggerTags {
		state.AddEnergy(tag, a.config.InitialEnergy)
	}

	for depth := 0; depth < a.config.MaxDepth; depth++ {
		delta := activation.New()

		state.Each(func(tag kb.Tag, energy float64) {
			if energy < a.config.EnergyThreshold {
				return
			}
			for _, assoc := range graph.GetAssociations(tag) {
				delta.AddEnergy(assoc.Target, energy*assoc.Weight*a.config.DecayRate)
			}
		})

		state.Merge(delta)
	}

	return state
}

// CollectFacts scores every fact reachable from a hot tag by summing
// energy(tag) * fact.Importance across all of its hot tags, then
// returns the top Config.MaxFacts facts by score descending. Ties are
// broken by FactID string so results are deterministic.
func (a *ContextAssembler) CollectFacts(graph *kb.Graph, state *activation.State) []*kb.Fact {
	hotTags := state.HotTags(a.config.EnergyThreshold)

	scores := make(map[ids.FactID]float64)
	factsByID := make(map[ids.FactID]*kb.Fact)
	for _, hot := range hotTags {
		for _, f := range graph.FactsByTag(hot.Tag) {
			scores[f.ID] += hot.Energy * f.Importance
			factsByID[f.ID] = f
		}
	}

	type scored struct {
		id    ids.FactID
		score float64
	}
	ranked := make([]scored, 0, len(scores))
	for id, score := range scores {
		ranked = append(ranked, scored{id, score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].id.String() < ranked[j].id.String()
	})

	if len(ranked) > a.config.MaxFacts {
		ranked = ranked[:a.config.MaxFacts]
	}

	out := make([]*kb.Fact, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, factsByID[r.id])
	}
	return out
}

// AssembleContext runs the full pipeline: extract trigger tags from
// event (plus the primary entity's current-location tag, if any),
// spread activation, collect facts, and build the structured result.
func (a *ContextAssembler) AssembleContext(event Event, graph *kb.Graph, world WorldSnapshot) *AssembledContext {
	triggerTags := a.extractTriggerTags(event, world)
	state := a.SpreadActivation(graph, triggerTags)
	facts := a.CollectFacts(graph, state)

	relevant := make([]string, len(facts))
	for i, f := range facts {
		relevant[i] = f.Content
	}

	ctx := &AssembledContext{
		EventDescription: event.Describe(world),
		RelevantFacts:    relevant,
		WorldContext:     extractWorldContext(world),
		CharacterContext: extractCharacterContext(event, world),
		ActivatedTags:    state.HotTags(a.config.EnergyThreshold),
	}

	a.log.Info("context assembled",
		"facts", len(relevant),
		"activated_tags", len(ctx.ActivatedTags),
		"characters", len(ctx.CharacterContext),
	)
	return ctx
}

func (a *ContextAssembler) extractTriggerTags(event Event, world WorldSnapshot) []kb.Tag {
	tags := event.ToTags()

	if entity, ok := event.PrimaryEntity(); ok {
		if loc, ok := world.EntityLocation(entity); ok {
			tags = append(tags, kb.LocationTag(loc))
		}
	}

	return tags
}

func extractWorldContext(world WorldSnapshot) WorldContext {
	t := world.Time()
	return WorldContext{
		TimeOfDay: formatTimeOfDay(t.Hour, t.Minute),
		Day:       t.Day,
		Season:    t.Season,
		Weather:   world.Weather(),
		IsNight:   world.IsNight(),
	}
}

func formatTimeOfDay(hour, minute uint8) string {
	const digits = "0123456789"
	format := func(v uint8) string {
		tens, ones := v/10, v%10
		return string([]byte{digits[tens], digits[ones]})
	}
	return format(hour) + ":" + format(minute)
}

func extractCharacterContext(event Event, world WorldSnapshot) []CharacterContext {
	out := make([]CharacterContext, 0)
	for _, entity := range event.InvolvedEntities() {
		c, ok := world.GetCharacter(entity)
		if !ok {
			continue
		}
		out = append(out, CharacterContext{
			Name:             c.Name(),
			Title:            titlePtr(c),
			CurrentHPPercent: hpPercent(c),
			ActiveStatuses:   c.ActiveStatusEffects(),
			Personality:      c.PersonalityTraits(),
		})
	}
	return out
}

func titlePtr(c Character) *string {
	if title, ok := c.Title(); ok {
		return &title
	}
	return nil
}

func hpPercent(c Character) uint32 {
	if c.MaxHP() <= 0 {
		return 100
	}
	percent := float64(c.CurrentHP()) / float64(c.MaxHP()) * 100
	return uint32(percent + 0.5)
}

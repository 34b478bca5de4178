package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Garsondee/Star-Sense/internal/config"
	"github.com/Garsondee/Star-Sense/internal/logging"
	"github.com/Garsondee/Star-Sense/internal/scenario"
	"github.com/Garsondee/Star-Sense/internal/sim"
	"github.com/Garsondee/Star-Sense/internal/template"
)

// stalemateQuietTicks is how long a battle must go without a kill before a
// high-survival result counts as a stalemate.
const stalemateQuietTicks = 900

type runStats struct {
	runIndex int
	seed     int64

	outcome sim.OutcomeReport
	endTick int

	shots      int
	hits       int
	destroyed  int // free-flying ships
	hardpoints int // hardpoints destroyed, including those lost with their parent
	promotions int
	orders     int

	firstShotTick int
	firstHitTick  int
	firstKillTick int
	lastKillTick  int

	losses map[string]int // destroyed ships by faction label
}

type runConfig struct {
	scenario string
	ticks    int
	dt       float64
	catalog  *template.Catalog
	simCfg   config.SimConfig
	log      zerolog.Logger
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var scenarioName string
	var parallel int
	var copyReport bool
	var verbose bool
	var cfgPath string

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 3600, "maximum ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenarioName, "scenario", "skirmish", "scenario name ("+strings.Join(scenario.Names(), ", ")+")")
	flag.IntVar(&parallel, "parallel", runtime.NumCPU(), "runs simulated at once")
	flag.BoolVar(&copyReport, "clipboard", false, "copy the report to the clipboard")
	flag.BoolVar(&verbose, "v", false, "log simulation events to stderr")
	flag.StringVar(&cfgPath, "config", "", "optional YAML config file")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	if _, err := scenario.Placements(scenarioName); err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	log, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	catalog, err := template.LoadCatalog(cfg.Templates)
	if err != nil {
		log.Fatal().Err(err).Msg("loading templates")
	}

	rc := runConfig{
		scenario: scenarioName,
		ticks:    ticks,
		dt:       cfg.Sim.DT,
		catalog:  catalog,
		simCfg:   cfg.Sim,
		log:      zerolog.Nop(),
	}
	if verbose {
		rc.log = log
	}

	all := make([]runStats, runs)
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(max(parallel, 1))
	for i := range runs {
		seed := seedBase + int64(i)*seedStep
		g.Go(func() error {
			rs, err := runScenario(ctx, rc, i+1, seed)
			if err != nil {
				return fmt.Errorf("run %d (seed=%d): %w", i+1, seed, err)
			}
			all[i] = rs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("headless run failed")
	}

	var report strings.Builder
	fmt.Fprintf(&report, "=== Headless Combat Report ===\n")
	fmt.Fprintf(&report, "scenario=%s runs=%d ticks=%d seed_base=%d seed_step=%d\n\n", scenarioName, runs, ticks, seedBase, seedStep)
	for _, rs := range all {
		printRun(&report, rs)
	}
	printAggregate(&report, all)

	fmt.Print(report.String())
	if copyReport {
		if err := clipboard.WriteAll(report.String()); err != nil {
			log.Warn().Err(err).Msg("could not copy report to clipboard")
		} else {
			log.Info().Int("bytes", report.Len()).Msg("report copied to clipboard")
		}
	}
}

// runScenario plays one seeded battle until a side is wiped out or the tick
// budget runs out.
func runScenario(ctx context.Context, rc runConfig, runIndex int, seed int64) (runStats, error) {
	w := sim.NewWorld(
		sim.WithLogger(rc.log.With().Int("run", runIndex).Logger()),
		sim.WithRand(seed),
		sim.WithTemplates(rc.catalog),
		sim.WithInitialPruneLimit(rc.simCfg.PruneLimit),
		sim.WithGridCell(rc.simCfg.GridCell),
		sim.WithContext(ctx),
		sim.WithSimLog(sim.NewSimLog(true)),
	)
	if _, err := scenario.Spawn(w, rc.scenario); err != nil {
		return runStats{}, err
	}

	outcome := sim.OutcomeReport{}
	for w.TickCount() < rc.ticks {
		if err := ctx.Err(); err != nil {
			return runStats{}, err
		}
		w.Step(rc.dt)
		outcome = sim.DetermineOutcome(w)
		if outcome.Outcome != sim.OutcomeInconclusive {
			break
		}
	}
	return collectStats(w.SimLog, runIndex, seed, w.TickCount(), outcome), nil
}

func collectStats(log *sim.SimLog, runIndex int, seed int64, endTick int, outcome sim.OutcomeReport) runStats {
	entries := log.Entries()
	rs := runStats{
		runIndex:      runIndex,
		seed:          seed,
		outcome:       outcome,
		endTick:       endTick,
		shots:         log.CountCategory("combat", "shot"),
		hits:          log.CountCategory("combat", "hit"),
		promotions:    log.CountCategory("group", "leader_promoted"),
		orders:        len(log.Filter("order", "")),
		firstShotTick: firstTick(entries, "combat", "shot", ""),
		firstHitTick:  firstTick(entries, "combat", "hit", ""),
		firstKillTick: -1,
		lastKillTick:  -1,
		losses:        map[string]int{},
	}
	for _, e := range entries {
		if e.Category != "lifecycle" || e.Key != "destroyed" {
			continue
		}
		if isHardpoint(e.Entity) {
			rs.hardpoints++
			continue
		}
		rs.destroyed++
		rs.losses[e.Faction]++
		if rs.firstKillTick < 0 {
			rs.firstKillTick = e.Tick
		}
		rs.lastKillTick = e.Tick
	}
	return rs
}

// isHardpoint reports whether a sim log label names a hardpoint; hardpoint
// labels carry their parent's label as a prefix.
func isHardpoint(label string) bool {
	return strings.Contains(label, "/")
}

func firstTick(entries []sim.SimLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

// factionSurvivalCounts returns the ships fielded and still flying across
// all factions.
func factionSurvivalCounts(r sim.OutcomeReport) (fielded, survivors int) {
	for _, f := range r.Factions() {
		fielded += r.Fielded[f]
		survivors += r.Survivors[f]
	}
	return fielded, survivors
}

// detectStalemate flags an unresolved battle where every faction kept most
// of its ships and nobody has scored a kill for a long while.
func detectStalemate(rs runStats) (bool, string) {
	if rs.outcome.Outcome != sim.OutcomeInconclusive {
		return false, "resolved_" + rs.outcome.Description
	}
	var reasons []string
	mutual := true
	for _, f := range rs.outcome.Factions() {
		fielded := rs.outcome.Fielded[f]
		if fielded == 0 || float64(rs.outcome.Survivors[f])/float64(fielded) < 0.6 {
			mutual = false
		}
	}
	if !mutual {
		return false, "decisive_attrition"
	}
	reasons = append(reasons, "high_mutual_survival")

	quiet := rs.endTick
	if rs.lastKillTick >= 0 {
		quiet = rs.endTick - rs.lastKillTick
	}
	if quiet < stalemateQuietTicks {
		return false, fmt.Sprintf("recent_kill_%d_ticks_ago", quiet)
	}
	reasons = append(reasons, fmt.Sprintf("quiet_%d_ticks", quiet))
	if rs.shots > 0 && rs.hits*10 < rs.shots {
		reasons = append(reasons, "low_accuracy")
	}
	return true, strings.Join(reasons, "+")
}

func printRun(out io.Writer, rs runStats) {
	fielded, survivors := factionSurvivalCounts(rs.outcome)
	fmt.Fprintf(out, "--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Fprintf(out, "outcome: %s end_tick=%d survivors=%d/%d\n",
		rs.outcome.Description, rs.endTick, survivors, fielded)
	for _, f := range rs.outcome.Factions() {
		fmt.Fprintf(out, "  f%d: fielded=%d survivors=%d\n", f, rs.outcome.Fielded[f], rs.outcome.Survivors[f])
	}
	fmt.Fprintf(out, "phase_markers: first_shot=%d first_hit=%d first_kill=%d last_kill=%d\n",
		rs.firstShotTick, rs.firstHitTick, rs.firstKillTick, rs.lastKillTick)
	fmt.Fprintf(out, "event_totals: shots=%d hits=%d accuracy=%s destroyed=%d hardpoints_lost=%d leader_promotions=%d orders=%d\n",
		rs.shots, rs.hits, percent(rs.hits, rs.shots), rs.destroyed, rs.hardpoints, rs.promotions, rs.orders)
	fmt.Fprintf(out, "losses: %s\n", joinCounts(rs.losses))
	if stalled, reason := detectStalemate(rs); stalled {
		fmt.Fprintf(out, "stalemate: %s\n", reason)
	}
	fmt.Fprintln(out)
}

func printAggregate(out io.Writer, all []runStats) {
	totalShots := 0
	totalHits := 0
	totalDestroyed := 0
	totalPromotions := 0
	stalemates := 0

	endTicks := make([]int, 0, len(all))
	firstKills := make([]int, 0, len(all))
	outcomes := map[string]int{}
	wins := map[string]int{}

	for _, rs := range all {
		totalShots += rs.shots
		totalHits += rs.hits
		totalDestroyed += rs.destroyed
		totalPromotions += rs.promotions
		endTicks = append(endTicks, rs.endTick)
		if rs.firstKillTick >= 0 {
			firstKills = append(firstKills, rs.firstKillTick)
		}
		outcomes[rs.outcome.Outcome.String()]++
		if rs.outcome.Outcome == sim.OutcomeVictory {
			wins[fmt.Sprintf("f%d", rs.outcome.Winner)]++
		}
		if stalled, _ := detectStalemate(rs); stalled {
			stalemates++
		}
	}

	fmt.Fprintln(out, "=== Aggregate ===")
	fmt.Fprintf(out, "runs=%d\n", len(all))
	fmt.Fprintf(out, "outcomes: %s stalemates=%d\n", joinCounts(outcomes), stalemates)
	fmt.Fprintf(out, "wins: %s\n", joinCounts(wins))
	fmt.Fprintf(out, "avg_events_per_run: shots=%.1f hits=%.1f destroyed=%.1f leader_promotions=%.1f\n",
		avg(totalShots, len(all)), avg(totalHits, len(all)), avg(totalDestroyed, len(all)), avg(totalPromotions, len(all)))
	fmt.Fprintf(out, "accuracy=%s\n", percent(totalHits, totalShots))
	fmt.Fprintf(out, "phase_marker_avg_ticks: end=%s first_kill=%s\n",
		avgTickString(endTicks), avgTickString(firstKills))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func percent(part, whole int) string {
	if whole <= 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(whole)*100)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinCounts(m map[string]int) string {
	if len(m) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, m[k])
	}
	return strings.Join(parts, " ")
}

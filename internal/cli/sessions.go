package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nlook/sparkcoach/internal/session"
)

// sessionsCmd represents the sessions command
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "管理会话数据",
	Long:  `提供查看会话概况、列出会话和清理过期数据的命令。`,
}

var sessionsInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "显示会话统计概况",
	Run:   runSessionsInfo,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出最近的会话",
	Run:   runSessionsList,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <thread-id>",
	Short: "显示单个会话的详情",
	Args:  cobra.ExactArgs(1),
	Run:   runSessionsShow,
}

// sessionsPruneCmd represents the prune command
var sessionsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "清理过期会话和运行记录",
	Long:  `根据指定的保留天数，删除长期未更新的会话和旧的运行审计记录。`,
	Run:   runSessionsPrune,
}

var (
	listPhase    string
	listLimit    int
	pruneKeepDay int
)

func init() {
	sessionsListCmd.Flags().StringVar(&listPhase, "phase", "", "按阶段过滤 (discovery/synthesis/recommendation/completed)")
	sessionsListCmd.Flags().IntVar(&listLimit, "limit", 20, "最多列出的条数")
	sessionsPruneCmd.Flags().IntVar(&pruneKeepDay, "days", 0, "保留最近 N 天的数据")

	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsInfoCmd)
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsPruneCmd)
}

func openSessionStore(ctx context.Context) *session.Store {
	if cfg == nil {
		fmt.Println("Config not loaded")
		os.Exit(1)
	}
	store, err := session.Open(ctx, cfg.Session)
	if err != nil {
		fmt.Printf("Error opening database: %v\n", err)
		os.Exit(1)
	}
	return store
}

func runSessionsInfo(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	store := openSessionStore(ctx)
	defer store.Close()

	counts, err := store.CountConversationsByPhase(ctx)
	if err != nil {
		fmt.Printf("Error counting conversations: %v\n", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PHASE\tCOUNT")
	var total int64
	for phase, count := range counts {
		fmt.Fprintf(w, "%s\t%d\n", phase, count)
		total += count
	}
	fmt.Fprintf(w, "total\t%d\n", total)
	w.Flush()
}

func runSessionsList(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	store := openSessionStore(ctx)
	defer store.Close()

	convs, err := store.ListConversations(ctx, session.SessionQuery{
		Phase: listPhase,
		Limit: listLimit,
		Desc:  true,
	})
	if err != nil {
		fmt.Printf("Error listing conversations: %v\n", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "THREAD\tPHASE\tQUESTIONS\tCOMPLETENESS\tUPDATED")
	for _, c := range convs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%s\n",
			c.ThreadID, c.Phase, c.QuestionsAsked, c.Completeness,
			c.UpdatedAt.Local().Format(time.DateTime))
	}
	w.Flush()
}

func runSessionsShow(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	store := openSessionStore(ctx)
	defer store.Close()

	threadID := args[0]
	state, err := store.Load(ctx, threadID)
	if err != nil {
		fmt.Printf("Error loading session: %v\n", err)
		os.Exit(1)
	}
	if state == nil {
		fmt.Printf("Session %s not found.\n", threadID)
		os.Exit(1)
	}

	fmt.Printf("Thread:       %s\n", threadID)
	fmt.Printf("Phase:        %s\n", state.Phase)
	fmt.Printf("Questions:    %d\n", state.QuestionsAsked)
	fmt.Printf("Completeness: %.2f\n", state.ProfileCompleteness)
	fmt.Printf("Messages:     %d\n", len(state.Messages))
	if len(state.UserProfile.Interests) > 0 {
		fmt.Printf("Interests:    %s\n", strings.Join(state.UserProfile.Interests, ", "))
	}
	if len(state.UserProfile.Skills) > 0 {
		fmt.Printf("Skills:       %s\n", strings.Join(state.UserProfile.Skills, ", "))
	}
	if len(state.UserProfile.WorkStyle) > 0 {
		fmt.Printf("Work style:   %s\n", strings.Join(state.UserProfile.WorkStyle, ", "))
	}
	if len(state.TopRecommendations) > 0 {
		fmt.Println("Recommendations:")
		for i, rec := range state.TopRecommendations {
			fmt.Printf("  %d. %s (fit %.2f)\n", i+1, rec.Path, rec.FitScore)
		}
	}
}

func runSessionsPrune(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	if pruneKeepDay <= 0 {
		fmt.Println("Error: must specify --days")
		cmd.Usage()
		os.Exit(1)
	}

	store := openSessionStore(ctx)
	defer store.Close()

	before := time.Now().AddDate(0, 0, -pruneKeepDay).UTC()

	var totalConvs, totalRuns int64
	for {
		n, err := store.DeleteIdleBeforeLimited(ctx, before, 0)
		if err != nil {
			fmt.Printf("Error pruning conversations: %v\n", err)
			os.Exit(1)
		}
		totalConvs += n
		if n == 0 {
			break
		}
	}
	for {
		n, err := store.DeleteRunRecordsBeforeLimited(ctx, before, 0)
		if err != nil {
			fmt.Printf("Error pruning run records: %v\n", err)
			os.Exit(1)
		}
		totalRuns += n
		if n == 0 {
			break
		}
	}

	fmt.Printf("Deleted %d conversations and %d run records older than %d days.\n",
		totalConvs, totalRuns, pruneKeepDay)
}

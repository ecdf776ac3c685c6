package preprocessor

// Result is the outcome of preparing a script for statement parsing.
type Result struct {
	Statements []Statement

	// UnterminatedComment reports a block comment left open at end of input.
	UnterminatedComment bool
}

// Pipeline runs comment stripping, whitespace collapse and statement
// splitting, strictly in that order.
type Pipeline struct {
	commentStripper CommentStripper
}

// NewPipeline creates a new preprocessing pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{commentStripper: NewCommentStripper()}
}

// Process prepares sql for parsing.
func (p *Pipeline) Process(sql string) Result {
	stripped, complete := p.commentStripper.Strip(sql)
	return Result{
		Statements:          SplitStatements(CollapseWhitespace(stripped)),
		UnterminatedComment: !complete,
	}
}

// Normalize strips comments and collapses whitespace without splitting.
func (p *Pipeline) Normalize(sql string) string {
	stripped, _ := p.commentStripper.Strip(sql)
	return CollapseWhitespace(stripped)
}

package common

import (
	"context"
	"fmt"

	"resumate/internal/errors"
	"resumate/internal/extract"
	"resumate/internal/pipeline"
	"resumate/internal/types"
	"resumate/internal/utils"
)

// AnalyzeFunc runs one analysis request through the pipeline.
type AnalyzeFunc func(ctx context.Context, req pipeline.AnalyzeRequest) (types.AnalysisResult, error)

// RunAnalysisCommand encapsulates the common logic for file-based analysis
// commands: read the resume and job description files, run the pipeline,
// and write the formatted result.
func RunAnalysisCommand(
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	resumeFile, jdFile, targetRole string,
	analyze AnalyzeFunc,
) error {
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	if err := utils.ValidateInputFile(resumeFile); err != nil {
		return errors.NewValidationError("INVALID_INPUT_FILE",
			fmt.Sprintf("Invalid file %s", resumeFile), err)
	}
	if err := utils.ValidateInputFile(jdFile); err != nil {
		return errors.NewValidationError("INVALID_INPUT_FILE",
			fmt.Sprintf("Invalid file %s", jdFile), err)
	}

	// The resume may be a binary document, the job description is text
	format, _, err := extract.DetectFormat(resumeFile, "")
	if err != nil {
		return err
	}
	resumeData, err := fileProcessor.ReadFileBytes(resumeFile)
	if err != nil {
		return err
	}
	jdText, err := fileProcessor.ReadFile(jdFile)
	if err != nil {
		return err
	}

	if logger != nil {
		logger.Info("Starting analysis",
			"resume_file", resumeFile,
			"resume_format", string(format),
			"jd_file", jdFile,
			"target_role", targetRole)
	}

	result, err := analyze(ctx, pipeline.AnalyzeRequest{
		ResumeData:     resumeData,
		ResumeFormat:   format,
		JobDescription: jdText,
		TargetRole:     targetRole,
	})
	if err != nil {
		return err
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}

package storage

// ResumeUploadMessage 简历上传事件消息
// 上传入口写入，解析消费者读取
type ResumeUploadMessage struct {
	SubmissionUUID      string `json:"submission_uuid"`
	OriginalFilePathOSS string `json:"original_file_path_oss"`
	OriginalFilename    string `json:"original_filename"`
	TargetJobID         string `json:"target_job_id,omitempty"`
	SourceChannel       string `json:"source_channel,omitempty"`
	RawFileMD5          string `json:"raw_file_md5"`
	SubmissionTimestamp string `json:"submission_timestamp"`
}
